package handlers

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"blogcms/internal/identity"
	"blogcms/internal/models"
	"blogcms/internal/service"
)

type homeView struct {
	*service.HomePage
	Search     string
	CategoryID string
	Query      url.Values
}

// listingView backs the category and search pages.
type listingView struct {
	Feed       service.FeedPage
	Category   *models.Category
	Categories []models.Category
	Search     string
	Query      url.Values
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.FeedQuery{
		CategoryID: q.Get("category"),
		Search:     q.Get("search"),
		Page:       pageParam(q.Get("page")),
	}

	home, err := h.PostService.Home(r.Context(), query)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	base := url.Values{}
	if query.CategoryID != "" {
		base.Set("category", query.CategoryID)
	}
	if query.Search != "" {
		base.Set("search", query.Search)
	}

	h.render(w, r, http.StatusOK, "post_list", "Blog", homeView{
		HomePage:   home,
		Search:     query.Search,
		CategoryID: query.CategoryID,
		Query:      base,
	})
}

func (h *Handlers) PostDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.PostService.Detail(r.Context(), mux.Vars(r)["slug"], identity.UserID(r.Context()))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.Metrics.PostViews.Inc()

	h.render(w, r, http.StatusOK, "post_detail", detail.Post.Title, detail)
}

func (h *Handlers) CategoryPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.PostService.CategoryFeed(r.Context(), mux.Vars(r)["slug"], pageParam(r.URL.Query().Get("page")))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "category_posts", page.Category.Name, listingView{
		Feed:       page.Feed,
		Category:   page.Category,
		Categories: page.Categories,
		Query:      url.Values{},
	})
}

func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	feed, err := h.PostService.Search(r.Context(), query, pageParam(r.URL.Query().Get("page")))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "search_results", "Search", listingView{
		Feed:   *feed,
		Search: query,
		Query:  url.Values{"q": {query}},
	})
}
