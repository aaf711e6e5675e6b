package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/repository"
)

type CompanyHandler struct {
	CompanyRepo repository.CompanyRepositoryInterface
}

func NewCompanyHandler(companyRepo repository.CompanyRepositoryInterface) *CompanyHandler {
	return &CompanyHandler{CompanyRepo: companyRepo}
}

func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Website *string `json:"website"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}

	company := &models.Company{Name: req.Name, Website: req.Website}
	if err := h.CompanyRepo.Create(company); err != nil {
		logrus.Errorf("failed to create company %s: %v", req.Name, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create company"})
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.CompanyRepo.ListAll()
	if err != nil {
		logrus.Errorf("failed to list companies: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list companies"})
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := parseUintParam(r, "companyID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid company ID"})
		return
	}

	company, err := h.CompanyRepo.GetByID(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Company not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get company"})
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Website *string `json:"website"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Name != nil && *req.Name != "" {
		company.Name = *req.Name
	}
	if req.Website != nil {
		company.Website = req.Website
	}

	if err := h.CompanyRepo.Update(company); err != nil {
		logrus.Errorf("failed to update company %d: %v", companyID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update company"})
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := parseUintParam(r, "companyID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid company ID"})
		return
	}

	if err := h.CompanyRepo.Delete(companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Company not found"})
			return
		}
		logrus.Errorf("failed to delete company %d: %v", companyID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete company"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
