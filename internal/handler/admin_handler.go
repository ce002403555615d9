package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"blogcms/internal/forms"
	"blogcms/internal/identity"
	"blogcms/internal/models"
	"blogcms/internal/service"
)

type postFormView struct {
	Post       *models.Post
	Categories []models.Category
	Values     map[string]string
	Errors     forms.Errors
}

type categoryListView struct {
	Categories []models.Category
	Values     map[string]string
	Errors     forms.Errors
}

func (h *Handlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.DashboardService.Dashboard(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "admin/dashboard", "Dashboard", dashboard)
}

func (h *Handlers) AdminPostList(w http.ResponseWriter, r *http.Request) {
	feed, err := h.PostService.List(r.Context(), pageParam(r.URL.Query().Get("page")))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "admin/post_list", "Posts", listingView{Feed: *feed, Query: url.Values{}})
}

func (h *Handlers) AdminPostCreatePage(w http.ResponseWriter, r *http.Request) {
	h.renderPostForm(w, r, http.StatusOK, nil, map[string]string{
		"status":     models.StatusDraft,
		"is_visible": "true",
	}, nil)
}

func (h *Handlers) AdminPostCreate(w http.ResponseWriter, r *http.Request) {
	input, file, err := h.postInput(w, r)
	if file != nil {
		defer file.Close()
	}
	if err == nil {
		_, err = h.PostService.Create(r.Context(), identity.From(r.Context()), input)
	}

	if err != nil {
		if verr, ok := service.AsValidation(err); ok {
			h.renderPostForm(w, r, http.StatusBadRequest, nil, input.Values, verr.Fields)
			return
		}
		h.renderError(w, r, err)
		return
	}

	h.flash(w, r, "Post created successfully!")
	http.Redirect(w, r, "/admin/posts/", http.StatusFound)
}

func (h *Handlers) AdminPostEditPage(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderPostForm(w, r, http.StatusOK, post, postValues(post), nil)
}

func (h *Handlers) AdminPostEdit(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	post, err := h.PostService.Get(r.Context(), postID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	input, file, err := h.postInput(w, r)
	if file != nil {
		defer file.Close()
	}
	if err == nil {
		_, err = h.PostService.Update(r.Context(), identity.From(r.Context()), postID, input)
	}

	if err != nil {
		if verr, ok := service.AsValidation(err); ok {
			values := input.Values
			if values == nil {
				values = postValues(post)
			}
			h.renderPostForm(w, r, http.StatusBadRequest, post, values, verr.Fields)
			return
		}
		h.renderError(w, r, err)
		return
	}

	h.flash(w, r, "Post updated successfully!")
	http.Redirect(w, r, "/admin/posts/", http.StatusFound)
}

func (h *Handlers) AdminPostDeletePage(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "admin/post_confirm_delete", "Delete post", post)
}

func (h *Handlers) AdminPostDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.PostService.Delete(r.Context(), identity.From(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.renderError(w, r, err)
		return
	}

	h.flash(w, r, "Post deleted successfully!")
	http.Redirect(w, r, "/admin/posts/", http.StatusFound)
}

func (h *Handlers) AdminCategoryList(w http.ResponseWriter, r *http.Request) {
	h.renderCategories(w, r, http.StatusOK, map[string]string{"color": service.DefaultCategoryColor}, nil)
}

func (h *Handlers) AdminCategoryCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, err)
		return
	}
	values := flatten(r.PostForm)

	category, err := h.CategoryService.Create(r.Context(), identity.From(r.Context()), values)
	if err != nil {
		if verr, ok := service.AsValidation(err); ok {
			h.renderCategories(w, r, http.StatusBadRequest, values, verr.Fields)
			return
		}
		h.renderError(w, r, err)
		return
	}

	h.flash(w, r, fmt.Sprintf("Category %q created.", category.Name))
	http.Redirect(w, r, "/admin/categories/", http.StatusFound)
}

func (h *Handlers) AdminCategoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CategoryService.Delete(r.Context(), identity.From(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.renderError(w, r, err)
		return
	}

	h.flash(w, r, "Category deleted.")
	http.Redirect(w, r, "/admin/categories/", http.StatusFound)
}

func (h *Handlers) AdminApproveComments(w http.ResponseWriter, r *http.Request) {
	h.setCommentApproval(w, r, true)
}

func (h *Handlers) AdminDisapproveComments(w http.ResponseWriter, r *http.Request) {
	h.setCommentApproval(w, r, false)
}

func (h *Handlers) setCommentApproval(w http.ResponseWriter, r *http.Request, approved bool) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, err)
		return
	}

	n, err := h.CommentService.SetApproval(r.Context(), identity.From(r.Context()), r.PostForm["comment_ids"], approved)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	verb := "approved"
	if !approved {
		verb = "disapproved"
	}
	h.flash(w, r, fmt.Sprintf("%d %s %s.", n, pluralWord(n, "comment", "comments"), verb))
	http.Redirect(w, r, "/admin/dashboard/", http.StatusFound)
}

func (h *Handlers) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.DeleteUser(r.Context(), identity.From(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.renderError(w, r, err)
		return
	}

	h.flash(w, r, "User deleted.")
	http.Redirect(w, r, "/admin/dashboard/", http.StatusFound)
}

func (h *Handlers) postInput(w http.ResponseWriter, r *http.Request) (service.PostInput, multipart.File, error) {
	values, image, file, err := h.multipartValues(w, r, "featured_image")
	return service.PostInput{Values: values, Image: image}, file, err
}

func (h *Handlers) renderPostForm(w http.ResponseWriter, r *http.Request, status int, post *models.Post, values map[string]string, errs forms.Errors) {
	categories, err := h.CategoryService.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	title := "New post"
	if post != nil {
		title = "Edit " + post.Title
	}

	h.render(w, r, status, "admin/post_form", title, postFormView{
		Post:       post,
		Categories: categories,
		Values:     values,
		Errors:     errs,
	})
}

func (h *Handlers) renderCategories(w http.ResponseWriter, r *http.Request, status int, values map[string]string, errs forms.Errors) {
	categories, err := h.CategoryService.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, status, "admin/category_list", "Categories", categoryListView{
		Categories: categories,
		Values:     values,
		Errors:     errs,
	})
}

func postValues(post *models.Post) map[string]string {
	values := map[string]string{
		"title":      post.Title,
		"excerpt":    post.Excerpt,
		"content":    post.Content,
		"status":     post.Status,
		"is_visible": strconv.FormatBool(post.IsVisible),
		"featured":   strconv.FormatBool(post.Featured),
	}
	if post.CategoryID != nil {
		values["category"] = *post.CategoryID
	}
	if post.ScheduledPublishAt != nil {
		values["scheduled_publish_at"] = post.ScheduledPublishAt.Format(forms.DateTimeLayout)
	}
	return values
}

func pluralWord(n int64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
