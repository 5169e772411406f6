package store

import (
	"context"

	"github.com/pkg/errors"
)

type relation int

const (
	likeRelation relation = iota
	collectionRelation
)

type toggleKey struct {
	postId uint
	rel    relation
}

// nextToggleSeq records a new in-flight toggle for the key and returns its
// sequence number. Caller must hold s.mu.
func (s *Store) nextToggleSeq(key toggleKey) uint64 {
	s.seqSource++
	s.toggleSeq[key] = s.seqSource
	return s.seqSource
}

// isLatestToggle reports whether seq is still the newest toggle issued for
// the key. Caller must hold s.mu.
func (s *Store) isLatestToggle(key toggleKey, seq uint64) bool {
	return s.toggleSeq[key] == seq
}

// flipMembership toggles id's membership in the set. Because the flip is an
// involution, the exact inverse of an optimistic flip is the same flip
// applied again, which is what rollback relies on.
func flipMembership(set []uint, id uint) []uint {
	for i, member := range set {
		if member == id {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return append(set, id)
}

// toggleRelation is the shared optimistic-toggle path for both relations:
// flip the local membership synchronously, issue the request, and on failure
// apply the exact inverse - unless a newer toggle for the same (post,
// relation) was issued while this one was in flight, in which case the
// completion is stale and must not touch state it no longer owns.
func (s *Store) toggleRelation(ctx context.Context, postId uint, rel relation, wrap string) error {
	key := toggleKey{postId: postId, rel: rel}

	s.mu.Lock()
	if s.currentUser == nil {
		// Anonymous sessions never issue the network call; callers redirect
		// to authentication before retrying.
		s.mu.Unlock()
		return nil
	}
	userId := s.currentUser.Id
	seq := s.nextToggleSeq(key)
	s.applyFlip(postId, rel)
	s.mu.Unlock()

	var err error
	if rel == likeRelation {
		_, err = s.api.ToggleLike(ctx, postId)
	} else {
		_, err = s.api.ToggleCollection(ctx, postId)
	}
	if err == nil {
		// Optimistic state already reflects the outcome: the server's toggle
		// semantics are symmetric with the local flip.
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser != nil && s.currentUser.Id == userId && s.isLatestToggle(key, seq) {
		s.applyFlip(postId, rel)
	}
	return errors.Wrap(err, wrap)
}

// applyFlip flips the membership of postId in the current user's set for the
// relation. Caller must hold s.mu and have checked currentUser != nil.
func (s *Store) applyFlip(postId uint, rel relation) {
	if rel == likeRelation {
		s.currentUser.LikedPosts = flipMembership(s.currentUser.LikedPosts, postId)
		return
	}
	s.currentUser.Collections = flipMembership(s.currentUser.Collections, postId)
}

// LikePost toggles the signed-in user's like on the post with immediate
// local feedback. On request failure the optimistic flip is rolled back and
// the error reported; anonymous sessions are a complete no-op.
func (s *Store) LikePost(ctx context.Context, postId uint) error {
	return s.toggleRelation(ctx, postId, likeRelation, "fail to toggle like")
}

// AddToCollection toggles membership of the post in the signed-in user's
// collection. Same optimistic-with-rollback contract as LikePost.
func (s *Store) AddToCollection(ctx context.Context, postId uint) error {
	return s.toggleRelation(ctx, postId, collectionRelation, "fail to toggle collection")
}

// IsLiked reports the current (possibly optimistic) like membership.
func (s *Store) IsLiked(postId uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return false
	}
	return contains(s.currentUser.LikedPosts, postId)
}

// IsCollected reports the current (possibly optimistic) collection
// membership.
func (s *Store) IsCollected(postId uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return false
	}
	return contains(s.currentUser.Collections, postId)
}

func contains(set []uint, id uint) bool {
	for _, member := range set {
		if member == id {
			return true
		}
	}
	return false
}
