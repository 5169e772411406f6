package store

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/problog/problog/model"
)

// fakeAPI implements API against an in-memory feed with the same keyset
// pagination contract as the real backend. Individual operations can be
// scripted to fail, and the like/list paths can be gated on channels so
// tests can interleave in-flight requests deterministically.
type fakeAPI struct {
	mu sync.Mutex

	feed    []*model.Post // descending id order, like the server's feed
	nextId  uint
	hydrate *model.HydratePayload

	failList    bool
	failCreate  bool
	failUpdate  bool
	failDelete  bool
	failHydrate bool
	toggleErr   error // when set, every toggle call fails immediately

	listCalls    int
	likeCalls    int
	collectCalls int

	// When non-nil, ListPosts signals listStarted then blocks until a value
	// arrives on listRelease (nil = succeed).
	listStarted chan struct{}
	listRelease chan error

	// When non-nil, each toggle call sends its own reply channel here and
	// blocks until the test completes it (nil = succeed). Per-call channels
	// let tests finish overlapping toggles in a chosen order.
	toggleGate chan chan error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextId: 1000}
}

// seedFeed installs posts with the given ids, keeping the given order.
func (f *fakeAPI) seedFeed(topic model.Topic, ids ...uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		f.feed = append(f.feed, &model.Post{
			Id:        id,
			CreatedAt: time.Now(),
			Topic:     topic,
			Title:     "post",
		})
	}
}

func (f *fakeAPI) ListPosts(ctx context.Context, topic model.Topic, cursor *uint) (*model.PostPage, error) {
	f.mu.Lock()
	f.listCalls++
	started, release := f.listStarted, f.listRelease
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		if err := <-release; err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errors.New("list failed")
	}

	page := &model.PostPage{Posts: []*model.Post{}}
	for _, post := range f.feed {
		if topic != model.TopicAll && post.Topic != topic {
			continue
		}
		if cursor != nil && post.Id >= *cursor {
			continue
		}
		page.Posts = append(page.Posts, post)
		if len(page.Posts) == model.FeedPageSize {
			break
		}
	}
	if len(page.Posts) == model.FeedPageSize {
		page.NextCursor = &page.Posts[len(page.Posts)-1].Id
	}
	return page, nil
}

func (f *fakeAPI) CreatePost(ctx context.Context, input CreatePostInput) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, errors.New("create failed")
	}

	f.nextId++
	post := &model.Post{
		Id:          f.nextId,
		CreatedAt:   time.Now(),
		Topic:       input.Topic,
		Title:       input.Title,
		Description: input.Description,
	}
	for _, url := range input.FileUrls {
		post.Files = append(post.Files, model.File{Url: url})
	}
	f.feed = append([]*model.Post{post}, f.feed...)
	return post, nil
}

func (f *fakeAPI) UpdatePost(ctx context.Context, postId uint, updates PostUpdates) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return nil, errors.New("update failed")
	}

	for _, post := range f.feed {
		if post.Id != postId {
			continue
		}
		updated := *post
		if updates.Title != nil {
			updated.Title = *updates.Title
		}
		if updates.Description != nil {
			updated.Description = *updates.Description
		}
		if updates.Topic != nil {
			updated.Topic = model.Topic(*updates.Topic)
		}
		*post = updated
		clone := updated
		return &clone, nil
	}
	return nil, errors.New("post not found")
}

func (f *fakeAPI) DeletePost(ctx context.Context, postId uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errors.New("delete failed")
	}
	kept := f.feed[:0]
	for _, post := range f.feed {
		if post.Id != postId {
			kept = append(kept, post)
		}
	}
	f.feed = kept
	return nil
}

func (f *fakeAPI) ToggleLike(ctx context.Context, postId uint) (bool, error) {
	f.mu.Lock()
	f.likeCalls++
	gate, scripted := f.toggleGate, f.toggleErr
	f.mu.Unlock()

	if scripted != nil {
		return false, scripted
	}
	if err := f.waitGate(gate); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeAPI) ToggleCollection(ctx context.Context, postId uint) (bool, error) {
	f.mu.Lock()
	f.collectCalls++
	gate, scripted := f.toggleGate, f.toggleErr
	f.mu.Unlock()

	if scripted != nil {
		return false, scripted
	}
	if err := f.waitGate(gate); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeAPI) waitGate(gate chan chan error) error {
	if gate == nil {
		return nil
	}
	reply := make(chan error)
	gate <- reply
	return <-reply
}

func (f *fakeAPI) Hydrate(ctx context.Context, userId string) (*model.HydratePayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failHydrate {
		return nil, errors.New("hydrate failed")
	}
	if f.hydrate == nil {
		return &model.HydratePayload{LikedPosts: []uint{}, Collections: []uint{}}, nil
	}
	return f.hydrate, nil
}

func (f *fakeAPI) LikedPosts(ctx context.Context, userId string) ([]*model.Post, error) {
	return []*model.Post{}, nil
}

func (f *fakeAPI) CollectionPosts(ctx context.Context, userId string) ([]*model.Post, error) {
	return []*model.Post{}, nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, userId string, updates UserUpdates) error {
	return nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, userId string) error {
	return nil
}

var _ API = (*fakeAPI)(nil)
