package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nmoreras/soundpost/internal/models"
)

// Like actions reported by POST /like-post.
const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

// LikeResult is the server-authoritative outcome of a like toggle.
type LikeResult struct {
	Likes  int    `json:"likes"`
	Action string `json:"action"`
}

// Liked reports whether the toggle left the post liked by the user.
func (r *LikeResult) Liked() bool {
	return r.Action == ActionLiked
}

// GetPosts fetches the public audio feed.
func (c *Client) GetPosts(ctx context.Context) ([]models.Post, error) {
	var body struct {
		Posts []models.Post `json:"posts"`
	}
	if err := c.getJSON(ctx, "/posts", &body); err != nil {
		return nil, err
	}
	return body.Posts, nil
}

// CheckLike reports whether the user currently likes the post.
func (c *Client) CheckLike(ctx context.Context, postID, userID string) (bool, error) {
	var body struct {
		Liked bool `json:"liked"`
	}
	path := fmt.Sprintf("/check-like?postId=%s&userId=%s", url.QueryEscape(postID), url.QueryEscape(userID))
	if err := c.getJSON(ctx, path, &body); err != nil {
		return false, err
	}
	return body.Liked, nil
}

// LikePost toggles the user's like on a post and returns the server's
// authoritative like state and aggregate count.
func (c *Client) LikePost(ctx context.Context, postID, userID string) (*LikeResult, error) {
	payload := map[string]string{"postId": postID, "userId": userID}

	var result LikeResult
	if err := c.postJSON(ctx, "/like-post", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreatePost publishes a new audio post. Upload of the audio payload itself
// is handled out of band; this sends the post metadata.
func (c *Client) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	var body struct {
		Post *models.Post `json:"post"`
	}
	if err := c.postJSON(ctx, "/create-post", post, &body); err != nil {
		return nil, err
	}
	if body.Post == nil {
		return post, nil
	}
	return body.Post, nil
}

// DeletePost removes one of the user's posts.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.sendJSON(ctx, "DELETE", "/delete-post", map[string]string{"postId": postID}, nil)
}

// GetComments fetches the comments on a post.
func (c *Client) GetComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var body struct {
		Comments []models.Comment `json:"comments"`
	}
	path := "/get-comments?postId=" + url.QueryEscape(postID)
	if err := c.getJSON(ctx, path, &body); err != nil {
		return nil, err
	}
	return body.Comments, nil
}

// AddComment posts a comment on behalf of the user.
func (c *Client) AddComment(ctx context.Context, comment *models.Comment) error {
	payload := map[string]string{
		"postId":    comment.PostID,
		"userId":    comment.UserID,
		"text":      comment.Text,
		"username":  comment.Username,
		"avatarUrl": comment.AvatarURL,
	}
	return c.postJSON(ctx, "/add-comment", payload, nil)
}
