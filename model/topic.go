package model

import "fmt"

// Topic is the fixed category a post is published under. TopicAll is only
// valid as a feed filter, never as a post's own topic.
type Topic string

const (
	TopicAll      Topic = "all"
	TopicProjects Topic = "projects"
	TopicMemes    Topic = "memes"
	TopicPets     Topic = "pets"
	TopicNews     Topic = "news"
)

var postTopics = []Topic{TopicProjects, TopicMemes, TopicPets, TopicNews}

// ParseTopic validates a raw topic string coming from a query parameter or a
// form field. An empty string defaults to TopicAll to keep the feed endpoint
// backward compatible with clients that omit the filter.
func ParseTopic(raw string) (Topic, error) {
	if raw == "" {
		return TopicAll, nil
	}
	t := Topic(raw)
	if t == TopicAll {
		return t, nil
	}
	for _, known := range postTopics {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown topic %q", raw)
}

// ParsePostTopic is ParseTopic restricted to topics a post can be created
// under, i.e. it rejects the "all" wildcard and the empty string.
func ParsePostTopic(raw string) (Topic, error) {
	for _, known := range postTopics {
		if Topic(raw) == known {
			return Topic(raw), nil
		}
	}
	return "", fmt.Errorf("invalid post topic %q", raw)
}
