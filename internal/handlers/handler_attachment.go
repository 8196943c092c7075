package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/core/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

type attachmentHandler struct {
	attachmentService portssvc.AttachmentSvcFacade
}

func registerAttachmentRoutes(rg *gin.RouterGroup, attachmentService portssvc.AttachmentSvcFacade) {
	h := &attachmentHandler{attachmentService: attachmentService}

	rg.GET("/confirmations/:id/attachments", h.listAttachments)
	rg.POST("/confirmations/:id/attachments", h.uploadAttachment)

	attachments := rg.Group("/attachments")
	{
		attachments.GET("/:id/url", h.getAttachmentURL)
		attachments.DELETE("/:id", h.deleteAttachment)
	}
}

// listAttachments godoc
// @Summary List a confirmation's attachments
// @Description Includes which stay each invoice covers and which stays are still missing one.
// @Tags attachments
// @Produce json
// @Param id path string true "Confirmation ID"
// @Success 200 {object} dto.AttachmentsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /confirmations/{id}/attachments [get]
func (h *attachmentHandler) listAttachments(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	resp, err := h.attachmentService.ListAttachments(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list attachments")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// uploadAttachment godoc
// @Summary Upload an invoice or payment order
// @Description An invoice with an original amount also records a hotel expense. If that fails the upload is kept and 500 is returned with the stored attachment.
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Confirmation ID"
// @Param file formData file true "Document (max 20MB)"
// @Param kind formData string true "invoice or payment_order"
// @Param stayKey formData string false "Stay the invoice belongs to"
// @Param originalAmount formData string false "Invoice amount"
// @Param originalCurrency formData string false "USD or GEL"
// @Success 201 {object} domain.ConfirmationAttachment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /confirmations/{id}/attachments [post]
func (h *attachmentHandler) uploadAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxAttachmentSize+multipartOverhead)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds the 20MB limit"})
			return
		}
		badRequest(c, "upload", err)
		return
	}
	if fileHeader.Size > services.MaxAttachmentSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds the 20MB limit"})
		return
	}

	in := dto.UploadAttachmentInput{
		ConfirmationID: c.Param("id"),
		Kind:           domain.AttachmentKind(c.PostForm("kind")),
		FileName:       fileHeader.Filename,
		ContentType:    fileHeader.Header.Get("Content-Type"),
		Size:           fileHeader.Size,
		StayKey:        strings.TrimSpace(c.PostForm("stayKey")),
	}
	if raw := strings.TrimSpace(c.PostForm("originalAmount")); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			badRequest(c, "originalAmount", err)
			return
		}
		in.OriginalAmount = &amount
	}
	if raw := strings.TrimSpace(c.PostForm("originalCurrency")); raw != "" {
		currency, err := domain.ParseCurrency(raw)
		if err != nil {
			badRequest(c, "originalCurrency", err)
			return
		}
		in.OriginalCurrency = &currency
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "upload", fmt.Errorf("cannot read file: %w", err))
		return
	}
	defer file.Close()
	in.Body = file

	attachment, err := h.attachmentService.UploadAttachment(c.Request.Context(), actor, in)
	if err != nil {
		if attachment != nil {
			respondPartial(c, err, "Attachment stored but the hotel expense could not be recorded", attachment)
			return
		}
		respondError(c, err, "Failed to upload attachment")
		return
	}
	logger.Info("Attachment uploaded", slog.String("attachment_id", attachment.ID), slog.String("kind", string(attachment.Kind)))
	c.JSON(http.StatusCreated, attachment)
}

// getAttachmentURL godoc
// @Summary Get a temporary download link
// @Tags attachments
// @Produce json
// @Param id path string true "Attachment ID"
// @Success 200 {object} dto.SignedURLResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /attachments/{id}/url [get]
func (h *attachmentHandler) getAttachmentURL(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	resp, err := h.attachmentService.GetAttachmentURL(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to sign attachment URL")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deleteAttachment godoc
// @Summary Delete an attachment
// @Description Also removes the expense derived from it.
// @Tags attachments
// @Param id path string true "Attachment ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /attachments/{id} [delete]
func (h *attachmentHandler) deleteAttachment(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.attachmentService.DeleteAttachment(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete attachment")
		return
	}
	c.Status(http.StatusNoContent)
}
