package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/staalberg/facetnav/app/config"
	"github.com/staalberg/facetnav/app/database"
)

func NewHandler(configCache *config.ConfigCache, rowRepo database.RowRepository,
	entryRepo database.EntryRepository, generator GeneratorInterface, outDir string) *Handler {
	return &Handler{
		configCache: configCache,
		rowRepo:     rowRepo,
		entryRepo:   entryRepo,
		generator:   generator,
		outDir:      outDir,
	}
}

// GetToc serves a generated TOC page. The wildcard is either empty
// (landing page) or binding/value identifying one page.
func (h *Handler) GetToc(c *gin.Context) {
	repo := c.Param("repo")
	if _, err := h.configCache.GetConfig(repo); err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	// generated pages link to each other with an .html suffix; accept
	// both suffixed and bare page paths
	page := strings.Trim(c.Param("page"), "/")
	page = strings.TrimSuffix(page, ".html")

	var file string
	if page == "" {
		file = filepath.Join(h.outDir, repo, "index.html")
	} else {
		file = filepath.Join(h.outDir, repo, "toc", filepath.FromSlash(page)+".html")
	}

	if !h.servable(file, repo) {
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.File(file)
}

// GetFeed serves a generated Atom file by its slug-based filename.
func (h *Handler) GetFeed(c *gin.Context) {
	repo := c.Param("repo")
	if _, err := h.configCache.GetConfig(repo); err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	slug := strings.Trim(c.Param("slug"), "/")
	if slug == "" {
		slug = "main.atom"
	}

	file := filepath.Join(h.outDir, repo, "feed", filepath.FromSlash(slug))
	if !h.servable(file, repo) {
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Content-Type", "application/atom+xml; charset=utf-8")
	c.File(file)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":             time.Now().In(time.Local).Format(time.RFC3339),
		"loaded_configurations": h.configCache.GetConfigCount(),
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	repos := make([]map[string]interface{}, 0, len(configs))
	for alias, repoConfig := range configs {
		info := map[string]interface{}{
			"alias":   alias,
			"title":   repoConfig.Title,
			"enabled": repoConfig.Settings.Enabled,
			"facets":  len(repoConfig.Facets),
		}

		if rowCount, err := h.rowRepo.GetRowCount(alias); err == nil {
			info["rows"] = rowCount
		}
		if entryCount, err := h.entryRepo.GetEntryCount(alias); err == nil {
			info["entries"] = entryCount
		}
		if lastModified, err := h.entryRepo.LastModified(alias); err == nil && !lastModified.IsZero() {
			info["last_modified"] = lastModified.Format(time.RFC3339)
		}

		repos = append(repos, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"repositories": repos,
		"total":        len(repos),
	})
}

// APIRegenerate forces a rebuild of one repository's output.
func (h *Handler) APIRegenerate(c *gin.Context) {
	repo := c.Param("repo")
	if _, err := h.configCache.GetConfig(repo); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Repository configuration not found"})
		return
	}

	if err := h.generator.RunRepo(c.Request.Context(), repo, true); err != nil {
		slog.Error("Forced regeneration failed", "repo", repo, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Regeneration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Repository regenerated",
		"repo":    repo,
	})
}

// servable reports whether file exists and stays inside the
// repository's output directory.
func (h *Handler) servable(file, repo string) bool {
	root := filepath.Join(h.outDir, repo)
	clean := filepath.Clean(file)
	if !strings.HasPrefix(clean, root+string(filepath.Separator)) {
		return false
	}
	info, err := os.Stat(clean)
	return err == nil && !info.IsDir()
}
