package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	router := chi.NewRouter()

	router.NotFound(app.notFoundErrorResponse)
	router.MethodNotAllowed(app.methodNotAllowedErrorResponse)

	router.Get("/v1/healthcheck", app.healthcheckHandler)
	router.Method(http.MethodGet, "/v1/metrics", app.metrics.Handler())

	// auth
	router.Post("/v1/auth/signup", app.signupHandler)
	router.Post("/v1/auth/signin", app.signinHandler)

	// blogs
	router.Get("/v1/blogs", app.listBlogsHandler)
	router.Post("/v1/blogs", app.requireAuthUser(app.createBlogHandler))
	router.Get("/v1/blogs/user/me", app.requireAuthUser(app.listOwnBlogsHandler))
	router.Get("/v1/blogs/{id}", app.getBlogHandler)
	router.Put("/v1/blogs/{id}", app.requireAuthUser(app.updateBlogHandler))
	router.Patch("/v1/blogs/{id}/state", app.requireAuthUser(app.updateBlogStateHandler))
	router.Delete("/v1/blogs/{id}", app.requireAuthUser(app.deleteBlogHandler))

	return app.recoverPanic(app.collectMetrics(app.logRequest(app.rateLimit(app.authenticate(router)))))
}
