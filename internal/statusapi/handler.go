// Package statusapi is the internal read-only status surface named in
// SPEC_FULL's domain-stack addition D1: GET /healthz and GET
// /v1/jobs/:id. It only ever reads proofstore.Store; it never accepts a
// job-creation request and never triggers the ZK input builder.
package statusapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kzero-xyz/kzero-service/internal/proofstore"
)

type Handler struct {
	store proofstore.Store
}

func NewHandler(store proofstore.Store) *Handler {
	return &Handler{store: store}
}

// Healthz reports liveness only; it deliberately never touches the
// store so it stays meaningful even while the database is down.
//
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type jobStatusResponse struct {
	ID        string `json:"id"`
	Nonce     string `json:"nonce"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// JobStatus returns a job's status by ID, never its proof bytes.
//
// @Summary Look up a proof job's status
// @Produce json
// @Param id path string true "job id"
// @Success 200 {object} jobStatusResponse
// @Failure 404 {object} map[string]string
// @Router /v1/jobs/{id} [get]
func (h *Handler) JobStatus(c *gin.Context) {
	id := c.Param("id")

	job, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, jobStatusResponse{
		ID:        job.ID,
		Nonce:     job.Nonce,
		Status:    string(job.Status),
		CreatedAt: job.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: job.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
