package main

import (
	"context"
	"fmt"

	"github.com/nmoreras/soundpost/internal/formatter"
	"github.com/nmoreras/soundpost/internal/interactions"
	"github.com/nmoreras/soundpost/internal/models"
	"github.com/nmoreras/soundpost/internal/shared"
	"github.com/urfave/cli/v3"
)

// PostsList prints the public audio feed.
func (r *Runner) PostsList(ctx context.Context, cmd *cli.Command) error {
	posts, err := r.api.GetPosts(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(posts, true)
	}

	output, err := formatter.PostsToTable(posts)
	if err != nil {
		return err
	}
	return r.writePlain("%s", output)
}

// PostsLike toggles the authenticated user's like on a post and prints the
// server-confirmed outcome.
func (r *Runner) PostsLike(ctx context.Context, cmd *cli.Command) error {
	postID := cmd.StringArg("post-id")
	if postID == "" {
		return fmt.Errorf("%w: post-id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := r.requireSession(ctx, db)
	if err != nil {
		return err
	}

	likes := interactions.NewLikeSync(r.api, r.config.Likes.RateLimit, r.logger)
	state, err := likes.Toggle(ctx, postID, session.Snapshot().User.ID)
	if err != nil {
		return err
	}

	if state.Liked {
		return r.writePlain("♥ Liked (%d likes)\n", state.Count)
	}
	return r.writePlain("♡ Unliked (%d likes)\n", state.Count)
}

// PostsCreate publishes a new audio post's metadata.
func (r *Runner) PostsCreate(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := r.requireSession(ctx, db)
	if err != nil {
		return err
	}

	user := session.Snapshot().User
	post := &models.Post{
		UserID:      user.ID,
		Username:    user.Username,
		Title:       title,
		Description: cmd.String("description"),
		AudioURL:    cmd.String("audio-url"),
	}
	created, err := r.api.CreatePost(ctx, post)
	if err != nil {
		return err
	}

	if created.ID != "" {
		return r.writePlain("✓ Post created (%s)\n", created.ID)
	}
	return r.writePlain("✓ Post created\n")
}

// PostsDelete removes one of the authenticated user's posts.
func (r *Runner) PostsDelete(ctx context.Context, cmd *cli.Command) error {
	postID := cmd.StringArg("post-id")
	if postID == "" {
		return fmt.Errorf("%w: post-id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := r.requireSession(ctx, db); err != nil {
		return err
	}

	if err := r.api.DeletePost(ctx, postID); err != nil {
		return err
	}
	return r.writePlain("✓ Post deleted\n")
}

// PostsComments prints a post's comments.
func (r *Runner) PostsComments(ctx context.Context, cmd *cli.Command) error {
	postID := cmd.StringArg("post-id")
	if postID == "" {
		return fmt.Errorf("%w: post-id", shared.ErrMissingArgument)
	}

	comments, err := r.api.GetComments(ctx, postID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(comments, true)
	}

	output, err := formatter.CommentsToText(comments)
	if err != nil {
		return err
	}
	return r.writePlain("%s", output)
}

// PostsComment adds a comment to a post on behalf of the authenticated user.
func (r *Runner) PostsComment(ctx context.Context, cmd *cli.Command) error {
	postID := cmd.StringArg("post-id")
	text := cmd.StringArg("text")
	if postID == "" || text == "" {
		return fmt.Errorf("%w: post-id and text", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := r.requireSession(ctx, db)
	if err != nil {
		return err
	}

	user := session.Snapshot().User
	comment := &models.Comment{
		PostID:    postID,
		UserID:    user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Text:      text,
	}
	if err := r.api.AddComment(ctx, comment); err != nil {
		return err
	}

	return r.writePlain("✓ Comment added\n")
}
