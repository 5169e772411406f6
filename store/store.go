package store

import (
	"context"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/problog/problog/model"
	Logger "github.com/problog/problog/utils/log"
)

// User is the store's snapshot of the signed-in account, including the full
// liked/collection membership once hydration has completed. A nil snapshot
// means the session is anonymous.
type User struct {
	Id          string
	Name        string
	Email       string
	AvatarUrl   string
	LikedPosts  []uint
	Collections []uint
}

// Store holds the client-visible slice of the global feed and the current
// user snapshot, and mediates every read/write against the backend API.
//
// It is an explicitly constructed state container, not a singleton: tests
// and embedders build isolated instances with New. All state lives behind
// one mutex; methods release it around network calls so a slow request
// never blocks reads or other mutations.
type Store struct {
	mu  sync.Mutex
	api API

	currentUser  *User
	posts        []*model.Post
	nextCursor   *uint
	loadingPosts bool
	currentTopic model.Topic

	// Latest issued toggle sequence per (post, relation). A toggle whose
	// completion observes a newer sequence skips its rollback, so a stale
	// failure can never clobber state a newer toggle already owns.
	toggleSeq map[toggleKey]uint64
	seqSource uint64
}

func New(api API) *Store {
	return &Store{
		api:          api,
		posts:        []*model.Post{},
		currentTopic: model.TopicAll,
		toggleSeq:    map[toggleKey]uint64{},
	}
}

// Posts returns a copy of the loaded feed slice in display order.
func (s *Store) Posts() []*model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// NextCursor returns the pagination cursor for the next page, or nil when
// the feed is exhausted (or not yet loaded).
func (s *Store) NextCursor() *uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextCursor == nil {
		return nil
	}
	cursor := *s.nextCursor
	return &cursor
}

func (s *Store) IsLoadingPosts() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingPosts
}

func (s *Store) CurrentTopic() model.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTopic
}

// CurrentUser returns a deep copy of the user snapshot, or nil when
// anonymous.
func (s *Store) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.currentUser)
}

func cloneUser(user *User) *User {
	if user == nil {
		return nil
	}
	clone := *user
	clone.LikedPosts = append([]uint{}, user.LikedPosts...)
	clone.Collections = append([]uint{}, user.Collections...)
	return &clone
}

// FetchPosts loads one feed page for the topic. With a nil cursor the loaded
// list is replaced (fresh load / topic switch); with a cursor the page is
// appended (pagination). While a fetch is in flight any further call is a
// no-op, so repeated scroll triggers collapse into one request. A failed
// fetch leaves the already-loaded pages untouched.
func (s *Store) FetchPosts(ctx context.Context, topic model.Topic, cursor *uint) error {
	s.mu.Lock()
	if s.loadingPosts {
		s.mu.Unlock()
		return nil
	}
	s.loadingPosts = true
	s.currentTopic = topic
	s.mu.Unlock()

	page, err := s.api.ListPosts(ctx, topic, cursor)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingPosts = false
	if err != nil {
		return errors.Wrap(err, "fail to fetch posts")
	}

	if cursor == nil {
		s.posts = append([]*model.Post{}, page.Posts...)
	} else {
		s.posts = append(s.posts, page.Posts...)
	}
	s.nextCursor = page.NextCursor
	return nil
}

// RefreshPosts resets and reloads the feed for the active topic, used when
// the topic filter changes or after mutations that may have shifted pages.
func (s *Store) RefreshPosts(ctx context.Context) error {
	return s.FetchPosts(ctx, s.CurrentTopic(), nil)
}

// CreatePost submits a new post and, on success, prepends it to the loaded
// list so freshly authored content is visible without a re-fetch.
func (s *Store) CreatePost(ctx context.Context, input CreatePostInput) (*model.Post, error) {
	post, err := s.api.CreatePost(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "fail to create post")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append([]*model.Post{post}, s.posts...)
	return post, nil
}

// UpdatePost submits a partial edit and merges the server-confirmed fields
// into the matching loaded post. A post that is not currently loaded is
// still updated remotely; there is just nothing local to merge into.
func (s *Store) UpdatePost(ctx context.Context, postId uint, updates PostUpdates) error {
	updated, err := s.api.UpdatePost(ctx, postId, updates)
	if err != nil {
		return errors.Wrap(err, "fail to update post")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, post := range s.posts {
		if post.Id != postId {
			continue
		}
		merged := *post
		// Merge only the fields the server reported back, keeping any
		// derived values the response does not carry.
		if err := copier.CopyWithOption(&merged, updated, copier.Option{IgnoreEmpty: true}); err != nil {
			return errors.Wrap(err, "fail to merge updated post")
		}
		s.posts[i] = &merged
		break
	}
	return nil
}

// DeletePost requests deletion and removes the matching post from the loaded
// list. Removing an id that is not loaded is a local no-op.
func (s *Store) DeletePost(ctx context.Context, postId uint) error {
	if err := s.api.DeletePost(ctx, postId); err != nil {
		return errors.Wrap(err, "fail to delete post")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.posts[:0]
	for _, post := range s.posts {
		if post.Id != postId {
			kept = append(kept, post)
		}
	}
	s.posts = kept
	return nil
}

// SetCurrentUser swaps the session identity wholesale. Setting a non-nil
// user kicks off hydration of the liked/collection membership; until that
// completes the fresh snapshot has empty sets. Pending toggle bookkeeping
// from the previous identity is discarded.
func (s *Store) SetCurrentUser(ctx context.Context, user *User) {
	s.mu.Lock()
	s.currentUser = cloneUser(user)
	s.toggleSeq = map[toggleKey]uint64{}
	s.mu.Unlock()

	if user != nil && user.Id != "" {
		s.HydrateUserData(ctx, user.Id)
	}
}

// HydrateUserData pulls the authoritative liked/collection id sets and
// merges them into the snapshot. Failure is logged and swallowed: the
// session stays usable, membership checks just read as false until the next
// successful hydration.
func (s *Store) HydrateUserData(ctx context.Context, userId string) {
	payload, err := s.api.Hydrate(ctx, userId)
	if err != nil {
		Logger.Log.Warn("fail to hydrate user data: ", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil || s.currentUser.Id != userId {
		// Identity changed while the request was in flight.
		return
	}
	s.currentUser.LikedPosts = append([]uint{}, payload.LikedPosts...)
	s.currentUser.Collections = append([]uint{}, payload.Collections...)
}

// FetchLikedPosts returns the signed-in user's liked posts, or an empty
// slice for anonymous sessions.
func (s *Store) FetchLikedPosts(ctx context.Context) ([]*model.Post, error) {
	user := s.CurrentUser()
	if user == nil {
		return []*model.Post{}, nil
	}
	return s.api.LikedPosts(ctx, user.Id)
}

// FetchCollectionPosts returns the signed-in user's collected posts, or an
// empty slice for anonymous sessions.
func (s *Store) FetchCollectionPosts(ctx context.Context) ([]*model.Post, error) {
	user := s.CurrentUser()
	if user == nil {
		return []*model.Post{}, nil
	}
	return s.api.CollectionPosts(ctx, user.Id)
}

// UpdateUser edits the signed-in user's profile and merges the confirmed
// fields into the snapshot. Anonymous sessions are a no-op.
func (s *Store) UpdateUser(ctx context.Context, updates UserUpdates) error {
	user := s.CurrentUser()
	if user == nil {
		return nil
	}

	if err := s.api.UpdateUser(ctx, user.Id, updates); err != nil {
		return errors.Wrap(err, "fail to update user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil || s.currentUser.Id != user.Id {
		return nil
	}
	if updates.Name != nil {
		s.currentUser.Name = *updates.Name
	}
	if updates.Image != nil {
		s.currentUser.AvatarUrl = *updates.Image
	}
	return nil
}

// DeleteUser deletes the signed-in account and clears the session snapshot.
// Anonymous sessions are a no-op.
func (s *Store) DeleteUser(ctx context.Context) error {
	user := s.CurrentUser()
	if user == nil {
		return nil
	}

	if err := s.api.DeleteUser(ctx, user.Id); err != nil {
		return errors.Wrap(err, "fail to delete user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser != nil && s.currentUser.Id == user.Id {
		s.currentUser = nil
		s.toggleSeq = map[toggleKey]uint64{}
	}
	return nil
}
