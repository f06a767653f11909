package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/go-directory-auth/directory"
)

type companyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	Email       string `json:"email,omitempty"`
}

func (s *Server) ListCompaniesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.companies.List(r.Context(), 0, 0)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) GetCompanyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		company, err := s.companies.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			if errors.Is(err, directory.ErrCompanyNotFound) {
				writeError(w, http.StatusNotFound, "company not found")
				return
			}
			s.serverError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, company)
	}
}

func (s *Server) CreateCompanyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req companyRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		company := &directory.Company{
			Name:        req.Name,
			Description: req.Description,
			Website:     req.Website,
			Email:       req.Email,
			Active:      true,
		}
		if err := s.companies.Insert(r.Context(), company); err != nil {
			s.serverError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, company)
	}
}

func (s *Server) UpdateCompanyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req companyRequest
		if !decodeBody(w, r, &req) {
			return
		}

		company, err := s.companies.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			if errors.Is(err, directory.ErrCompanyNotFound) {
				writeError(w, http.StatusNotFound, "company not found")
				return
			}
			s.serverError(w, r, err)
			return
		}

		// Absent fields keep their stored values
		if req.Name != "" {
			company.Name = req.Name
		}
		if req.Description != "" {
			company.Description = req.Description
		}
		if req.Website != "" {
			company.Website = req.Website
		}
		if req.Email != "" {
			company.Email = req.Email
		}

		if err := s.companies.Update(r.Context(), company); err != nil {
			s.serverError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, company)
	}
}

// DeleteCompanyHandler soft-deletes; the record stays in the store with
// active=false.
func (s *Server) DeleteCompanyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		company, err := s.companies.SetActive(r.Context(), r.PathValue("id"), false)
		if err != nil {
			if errors.Is(err, directory.ErrCompanyNotFound) {
				writeError(w, http.StatusNotFound, "company not found")
				return
			}
			s.serverError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"msg": "company removed", "company": company})
	}
}
