package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"postboard/internal/models"
	"postboard/internal/pagination"
	"postboard/internal/storage"
	"postboard/internal/store"
)

type postPage = pagination.Page[models.Post]

type listData struct {
	User *models.User
	Page postPage
}

type groupData struct {
	User  *models.User
	Group *models.Group
	Page  postPage
}

type profileData struct {
	User      *models.User
	Profile   *models.User
	Page      postPage
	Following bool
}

type detailData struct {
	User            *models.User
	Post            *models.Post
	AuthorPostCount int
	Comments        []models.Comment
	CommentText     string
	CommentError    string
}

type postFormData struct {
	User       *models.User
	IsEdit     bool
	Text       string
	GroupID    string
	Groups     []models.Group
	TextError  string
	ImageError string
}

func (s *Server) home(c echo.Context) error {
	page, err := s.store.Posts.List(c.Request().Context(), requestedPage(c))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "index", listData{User: currentUser(c), Page: page})
}

func (s *Server) groupPosts(c echo.Context) error {
	ctx := c.Request().Context()
	group, err := s.store.Groups.BySlug(ctx, c.Param("slug"))
	if err != nil {
		return notFoundOnMiss(err)
	}
	page, err := s.store.Posts.ListByGroup(ctx, group.ID, requestedPage(c))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "group_list", groupData{
		User:  currentUser(c),
		Group: group,
		Page:  page,
	})
}

func (s *Server) profile(c echo.Context) error {
	ctx := c.Request().Context()
	profile, err := s.store.Users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		return notFoundOnMiss(err)
	}
	page, err := s.store.Posts.ListByAuthor(ctx, profile.ID, requestedPage(c))
	if err != nil {
		return err
	}

	viewer := currentUser(c)
	following := false
	if viewer != nil {
		following, err = s.store.Follows.Exists(ctx, viewer.ID, profile.ID)
		if err != nil {
			return err
		}
	}

	return c.Render(http.StatusOK, "profile", profileData{
		User:      viewer,
		Profile:   profile,
		Page:      page,
		Following: following,
	})
}

func (s *Server) postDetail(c echo.Context) error {
	post, err := s.store.Posts.ByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundOnMiss(err)
	}
	return s.renderDetail(c, post, "", "")
}

func (s *Server) renderDetail(c echo.Context, post *models.Post, commentText, commentError string) error {
	ctx := c.Request().Context()
	authorCount, err := s.store.Posts.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return err
	}
	comments, err := s.store.Comments.ListByPost(ctx, post.ID)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "post_detail", detailData{
		User:            currentUser(c),
		Post:            post,
		AuthorPostCount: authorCount,
		Comments:        comments,
		CommentText:     commentText,
		CommentError:    commentError,
	})
}

func (s *Server) createPostForm(c echo.Context) error {
	return s.renderPostForm(c, postFormData{User: currentUser(c)})
}

func (s *Server) createPost(c echo.Context) error {
	user := currentUser(c)
	form := postFormData{
		User:    user,
		Text:    c.FormValue("text"),
		GroupID: c.FormValue("group"),
	}

	if blank(form.Text) {
		form.TextError = "The post text cannot be empty."
		return s.renderPostForm(c, form)
	}

	post := &models.Post{
		Text:     form.Text,
		AuthorID: user.ID,
	}
	if err := s.applyGroup(c, post, form.GroupID); err != nil {
		return err
	}
	if imgErr := s.applyImage(c, post); imgErr != "" {
		form.ImageError = imgErr
		return s.renderPostForm(c, form)
	}

	if err := s.store.Posts.Create(c.Request().Context(), post); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/profile/"+user.Username+"/")
}

func (s *Server) editPostForm(c echo.Context) error {
	post, err := s.authoredPost(c)
	if err != nil {
		return err
	}
	form := postFormData{
		User:   currentUser(c),
		IsEdit: true,
		Text:   post.Text,
	}
	if post.GroupID != nil {
		form.GroupID = *post.GroupID
	}
	return s.renderPostForm(c, form)
}

func (s *Server) editPost(c echo.Context) error {
	post, err := s.authoredPost(c)
	if err != nil {
		return err
	}

	form := postFormData{
		User:    currentUser(c),
		IsEdit:  true,
		Text:    c.FormValue("text"),
		GroupID: c.FormValue("group"),
	}
	if blank(form.Text) {
		form.TextError = "The post text cannot be empty."
		return s.renderPostForm(c, form)
	}

	post.Text = form.Text
	if err := s.applyGroup(c, post, form.GroupID); err != nil {
		return err
	}
	if imgErr := s.applyImage(c, post); imgErr != "" {
		form.ImageError = imgErr
		return s.renderPostForm(c, form)
	}

	if err := s.store.Posts.Update(c.Request().Context(), post); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/posts/"+post.ID+"/")
}

// authoredPost loads the post from the route and enforces that the
// current user wrote it.
func (s *Server) authoredPost(c echo.Context) (*models.Post, error) {
	post, err := s.store.Posts.ByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, notFoundOnMiss(err)
	}
	if currentUser(c).ID != post.AuthorID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Only the author can edit this post.")
	}
	return post, nil
}

func (s *Server) addComment(c echo.Context) error {
	post, err := s.store.Posts.ByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundOnMiss(err)
	}

	text := c.FormValue("text")
	if blank(text) {
		return s.renderDetail(c, post, text, "The comment cannot be empty.")
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: currentUser(c).ID,
		Text:     text,
	}
	if err := s.store.Comments.Create(c.Request().Context(), comment); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/posts/"+post.ID+"/")
}

func (s *Server) followFeed(c echo.Context) error {
	user := currentUser(c)
	page, err := s.store.Posts.ListFollowed(c.Request().Context(), user.ID, requestedPage(c))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "index", listData{User: user, Page: page})
}

func (s *Server) follow(c echo.Context) error {
	ctx := c.Request().Context()
	author, err := s.store.Users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		return notFoundOnMiss(err)
	}
	// Following yourself is skipped; the redirect happens either way.
	err = s.store.Follows.Create(ctx, currentUser(c).ID, author.ID)
	if err != nil && !errors.Is(err, store.ErrSelfFollow) {
		return err
	}
	return c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}

func (s *Server) unfollow(c echo.Context) error {
	ctx := c.Request().Context()
	author, err := s.store.Users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		return notFoundOnMiss(err)
	}
	if err := s.store.Follows.Delete(ctx, currentUser(c).ID, author.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}

func (s *Server) renderPostForm(c echo.Context, form postFormData) error {
	groups, err := s.store.Groups.List(c.Request().Context())
	if err != nil {
		return err
	}
	form.Groups = groups
	return c.Render(http.StatusOK, "post_form", form)
}

// applyGroup resolves the submitted group id onto the post. An empty
// selection clears the group; an unknown id is a 404.
func (s *Server) applyGroup(c echo.Context, post *models.Post, groupID string) error {
	if groupID == "" {
		post.GroupID = nil
		return nil
	}
	group, err := s.store.Groups.ByID(c.Request().Context(), groupID)
	if err != nil {
		return notFoundOnMiss(err)
	}
	post.GroupID = &group.ID
	return nil
}

// applyImage stores an uploaded image if one was submitted. The returned
// string is a user-facing field error, empty when the upload is fine or
// absent.
func (s *Server) applyImage(c echo.Context, post *models.Post) string {
	file, err := c.FormFile("image")
	if err != nil {
		return "" // no upload
	}
	path, err := s.images.Save(file)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return "Only gif, jpeg, png and webp images are supported."
		}
		s.log.Errorw("store image", "error", err)
		return "The image could not be stored."
	}
	post.Image = path
	return ""
}

func requestedPage(c echo.Context) int {
	return pagination.ParsePage(c.QueryParam("page"))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
