package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/sync"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/logger"
)

// CreateFolder dual-writes a new folder through the provider, then
// mirrors it into the cache.
func (h *Handler) CreateFolder(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")

	var draft sync.FolderDraft
	if err := c.Bind(&draft); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request data"})
	}
	if draft.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name is required"})
	}

	folder, err := h.syncService.CreateFolder(c.Request().Context(), tenantRef, draft)
	if err != nil {
		return h.renderError(c, err)
	}

	log.Info("Folder created",
		zap.String("tenant", tenantRef),
		zap.Uint("folder_id", folder.ID),
		zap.String("provider_id", folder.ProviderID))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "folder": folder})
}

// UpdateFolder dual-writes changes to an existing folder.
func (h *Handler) UpdateFolder(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")
	folderRef := c.Param("id")

	var draft sync.FolderDraft
	if err := c.Bind(&draft); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request data"})
	}

	folder, err := h.syncService.UpdateFolder(c.Request().Context(), tenantRef, folderRef, draft)
	if err != nil {
		return h.renderError(c, err)
	}

	log.Info("Folder updated",
		zap.String("tenant", tenantRef),
		zap.String("folder", folderRef))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "folder": folder})
}

// DeleteFolder dual-deletes a folder: provider first, then the cache.
func (h *Handler) DeleteFolder(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")
	folderRef := c.Param("id")

	if err := h.syncService.DeleteFolder(c.Request().Context(), tenantRef, folderRef); err != nil {
		return h.renderError(c, err)
	}

	log.Info("Folder deleted",
		zap.String("tenant", tenantRef),
		zap.String("folder", folderRef))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
