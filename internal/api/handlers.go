package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Waito3007/aRefactor/internal/catalog"
	"github.com/Waito3007/aRefactor/internal/core/failure"
)

// decodeBody parses a JSON request body. A malformed body is a request
// integrity failure, reported before any domain validation runs.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return failure.DomainRule(failure.KeyMalformedRequest, "request body is not valid JSON")
	}
	return nil
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateProductRequest
	if err := decodeBody(r, &req); err != nil {
		s.translator.Write(w, err)
		return
	}

	view, err := s.catalog.CreateProduct(r.Context(), &req)
	if err != nil {
		s.translator.Write(w, err)
		return
	}
	writeEnvelope(w, OK(http.StatusCreated, KeyCreated, "product created", view))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	view, err := s.catalog.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		s.translator.Write(w, err)
		return
	}
	writeEnvelope(w, OK(http.StatusOK, KeyOK, "product retrieved", view))
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	req, err := listRequestFromQuery(r)
	if err != nil {
		s.translator.Write(w, err)
		return
	}

	view, err := s.catalog.ListProducts(r.Context(), req)
	if err != nil {
		s.translator.Write(w, err)
		return
	}
	writeEnvelope(w, OK(http.StatusOK, KeyOK, "products retrieved", view))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.UpdateProductRequest
	if err := decodeBody(r, &req); err != nil {
		s.translator.Write(w, err)
		return
	}

	view, err := s.catalog.UpdateProduct(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		s.translator.Write(w, err)
		return
	}
	writeEnvelope(w, OK(http.StatusOK, KeyUpdated, "product updated", view))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		s.translator.Write(w, err)
		return
	}
	writeEnvelope(w, OK(http.StatusOK, KeyDeleted, "product deleted", nil))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		s.translator.Write(w, err)
		return
	}

	view, err := s.catalog.CreateCategory(r.Context(), &req)
	if err != nil {
		s.translator.Write(w, err)
		return
	}
	writeEnvelope(w, OK(http.StatusCreated, KeyCreated, "category created", view))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	view, err := s.catalog.GetCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		s.translator.Write(w, err)
		return
	}
	writeEnvelope(w, OK(http.StatusOK, KeyOK, "category retrieved", view))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	views, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.translator.Write(w, err)
		return
	}
	writeEnvelope(w, OK(http.StatusOK, KeyOK, "categories retrieved", views))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		s.translator.Write(w, err)
		return
	}
	writeEnvelope(w, OK(http.StatusOK, KeyDeleted, "category deleted", nil))
}

// listRequestFromQuery parses listing query parameters. Unparsable numbers
// are validation failures so the client sees which parameter is broken.
func listRequestFromQuery(r *http.Request) (catalog.ListProductsRequest, error) {
	q := r.URL.Query()
	req := catalog.ListProductsRequest{
		CategoryID: q.Get("categoryId"),
		Status:     q.Get("status"),
	}

	violations := map[string][]string{}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			violations["limit"] = append(violations["limit"], "must be an integer")
		} else {
			req.Limit = n
		}
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			violations["offset"] = append(violations["offset"], "must be an integer")
		} else {
			req.Offset = n
		}
	}

	if len(violations) > 0 {
		return req, failure.Validation(violations)
	}
	return req, nil
}
