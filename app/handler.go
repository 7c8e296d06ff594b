package main

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Taiwo-asiyanbi/blogging-api/internal/blogservice"
	"github.com/Taiwo-asiyanbi/blogging-api/internal/common"
	"github.com/Taiwo-asiyanbi/blogging-api/internal/userservice"
)

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (app *application) signupHandler(w http.ResponseWriter, r *http.Request) {
	var input signupRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, token, err := app.userService.CreateUser(r.Context(), input.FirstName, input.LastName, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.badRequestErrorResponse(w, r, errors.New("a user with this email address already exists"))
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{
		"success": true,
		"message": "user registered successfully",
		"data":    envelope{"user": user, "token": token.Plain},
	}

	err = app.writeJSON(w, http.StatusCreated, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) signinHandler(w http.ResponseWriter, r *http.Request) {
	var input signinRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, token, err := app.userService.LoginUser(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{
		"success": true,
		"message": "login successful",
		"data":    envelope{"user": user, "token": token.Plain},
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type createBlogRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input createBlogRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	req := &blogservice.CreateBlogRequest{
		Title:       input.Title,
		Description: input.Description,
		Body:        input.Body,
		Tags:        input.Tags,
		AuthorID:    user.ID,
	}

	blog, err := app.blogService.CreateBlog(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrDuplicateTitle):
			app.badRequestErrorResponse(w, r, errors.New("a blog with this title already exists"))
		case errors.Is(err, blogservice.ErrAuthorForeignKey):
			app.invalidAuthenticationTokenResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.metrics.RecordBlogCreated()

	env := envelope{
		"success": true,
		"message": "blog created successfully",
		"data":    blog,
	}

	err = app.writeJSON(w, http.StatusCreated, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var viewerID *uuid.UUID
	if user := app.getUserContext(r); user != nil && !user.IsAnonymous() {
		viewerID = &user.ID
	}

	blog, err := app.blogService.GetBlogByID(r.Context(), id, viewerID)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, blogservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.metrics.RecordBlogView()

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "data": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBlogsHandler is the public listing and search endpoint. Only published
// blogs come back, whoever asks.
func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, orderBy, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	params := r.URL.Query()
	filter := blogservice.Filter{
		Title:  params.Get("title"),
		Tags:   blogservice.ParseTags(params.Get("tags")),
		Author: params.Get("author"),
	}

	blogs, metadata, err := app.blogService.GetPublishedBlogs(r.Context(), filter, blogservice.Page{Page: page, Limit: limit, OrderBy: orderBy})
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrAuthorNotFound):
			app.writeErrorResponse(w, r, http.StatusNotFound, envelope{"message": "author not found"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{
		"success":    true,
		"data":       blogs,
		"pagination": metadata,
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listOwnBlogsHandler returns the caller's blogs, drafts included.
func (app *application) listOwnBlogsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, orderBy, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var state *blogservice.BlogState
	if s := r.URL.Query().Get("state"); s != "" {
		bs := blogservice.BlogState(s)
		state = &bs
	}

	user := app.getUserContext(r)

	blogs, metadata, err := app.blogService.GetUserBlogs(r.Context(), user.ID, state, blogservice.Page{Page: page, Limit: limit, OrderBy: orderBy})
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrInvalidState):
			app.badRequestErrorResponse(w, r, errors.New("state must be either draft or published"))
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{
		"success":    true,
		"data":       blogs,
		"pagination": metadata,
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type updateBlogRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Body        *string   `json:"body"`
	Tags        *[]string `json:"tags"`
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input updateBlogRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	req := &blogservice.UpdateBlogRequest{
		Title:       input.Title,
		Description: input.Description,
		Body:        input.Body,
		Tags:        input.Tags,
	}

	blog, err := app.blogService.UpdateBlog(r.Context(), id, user.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, blogservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		case errors.Is(err, blogservice.ErrDuplicateTitle):
			app.badRequestErrorResponse(w, r, errors.New("a blog with this title already exists"))
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{
		"success": true,
		"message": "blog updated successfully",
		"data":    blog,
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type updateBlogStateRequest struct {
	State string `json:"state"`
}

func (app *application) updateBlogStateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input updateBlogStateRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	blog, err := app.blogService.UpdateBlogState(r.Context(), id, user.ID, blogservice.BlogState(input.State))
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrInvalidState):
			app.badRequestErrorResponse(w, r, errors.New("state must be either draft or published"))
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, blogservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{
		"success": true,
		"message": "blog state updated to " + string(blog.State),
		"data":    blog,
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	err = app.blogService.DeleteBlog(r.Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, blogservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{
		"success": true,
		"message": "blog deleted successfully",
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
