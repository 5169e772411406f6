package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/problog/problog/model"
)

const defaultRequestTimeout = 15 * time.Second

// Client is the HTTP implementation of API against the REST backend. The
// session token, when set, is attached to every request.
type Client struct {
	baseUrl string
	token   string
	inner   *http.Client
}

func NewClient(baseUrl string) *Client {
	return &Client{
		baseUrl: strings.TrimSuffix(baseUrl, "/"),
		inner:   &http.Client{Timeout: defaultRequestTimeout},
	}
}

// SetSessionToken installs the signed token obtained from a login endpoint.
// An empty token makes subsequent requests anonymous.
func (c *Client) SetSessionToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(raw), out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, "application/json", bytes.NewReader(raw), out)
}

// APIError is a non-2xx response decoded into the server's error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := ioutil.ReadAll(resp.Body)
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}

func (c *Client) ListPosts(ctx context.Context, topic model.Topic, cursor *uint) (*model.PostPage, error) {
	query := url.Values{}
	query.Set("topic", string(topic))
	if cursor != nil {
		query.Set("cursor", fmt.Sprint(*cursor))
	}

	var page model.PostPage
	if err := c.getJSON(ctx, "/api/posts?"+query.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreatePost(ctx context.Context, input CreatePostInput) (*model.Post, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	form.WriteField("title", input.Title)
	form.WriteField("description", input.Description)
	form.WriteField("topic", string(input.Topic))
	for _, fileUrl := range input.FileUrls {
		form.WriteField("fileUrls", fileUrl)
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	var post model.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", form.FormDataContentType(), &buf, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, postId uint, updates PostUpdates) (*model.Post, error) {
	var post model.Post
	if err := c.putJSON(ctx, fmt.Sprintf("/api/posts/%d", postId), updates, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, postId uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postId), "", nil, nil)
}

func (c *Client) ToggleLike(ctx context.Context, postId uint) (bool, error) {
	var resp struct {
		Liked bool `json:"liked"`
	}
	if err := c.postJSON(ctx, fmt.Sprintf("/api/posts/%d/like", postId), struct{}{}, &resp); err != nil {
		return false, err
	}
	return resp.Liked, nil
}

func (c *Client) ToggleCollection(ctx context.Context, postId uint) (bool, error) {
	var resp struct {
		Collected bool `json:"collected"`
	}
	if err := c.postJSON(ctx, fmt.Sprintf("/api/posts/%d/collect", postId), struct{}{}, &resp); err != nil {
		return false, err
	}
	return resp.Collected, nil
}

func (c *Client) Hydrate(ctx context.Context, userId string) (*model.HydratePayload, error) {
	var payload model.HydratePayload
	if err := c.getJSON(ctx, fmt.Sprintf("/api/users/%s/hydrate", url.PathEscape(userId)), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) LikedPosts(ctx context.Context, userId string) ([]*model.Post, error) {
	var posts []*model.Post
	if err := c.getJSON(ctx, fmt.Sprintf("/api/users/%s/liked", url.PathEscape(userId)), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) CollectionPosts(ctx context.Context, userId string) ([]*model.Post, error) {
	var posts []*model.Post
	if err := c.getJSON(ctx, fmt.Sprintf("/api/users/%s/collections", url.PathEscape(userId)), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) UpdateUser(ctx context.Context, userId string, updates UserUpdates) error {
	return c.putJSON(ctx, fmt.Sprintf("/api/users/%s", url.PathEscape(userId)), updates, nil)
}

func (c *Client) DeleteUser(ctx context.Context, userId string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%s", url.PathEscape(userId)), "", nil, nil)
}

var _ API = (*Client)(nil)
