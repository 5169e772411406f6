package model

// FeedPageSize is the fixed number of posts per feed page. A page shorter
// than this signals end-of-feed.
const FeedPageSize = 10

// PostPage is one topic-filtered window of the global feed, ordered by
// creation time descending. NextCursor is the id of the last post in a full
// page, or nil when the feed is exhausted.
type PostPage struct {
	Posts      []*Post `json:"posts"`
	NextCursor *uint   `json:"nextCursor"`
}

// HydratePayload carries the full liked/collection membership of a user, used
// to hydrate a freshly established client session.
type HydratePayload struct {
	LikedPosts  []uint `json:"likedPosts"`
	Collections []uint `json:"collections"`
}
