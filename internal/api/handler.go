package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardhub/internal/auth"
)

// Rebuilder triggers a full rebuild; the api-server wires the pipeline
// runner in here so the handler stays free of build plumbing.
type Rebuilder interface {
	Rebuild(setCodes []string) error
}

type Handler struct {
	Repo      *Repo
	Tokens    auth.TokenService
	AdminHash string
	Builder   Rebuilder

	logger *zap.Logger
}

func NewHandler(repo *Repo, tokens auth.TokenService, adminHash string, builder Rebuilder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Repo:      repo,
		Tokens:    tokens,
		AdminHash: adminHash,
		Builder:   builder,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/sets", h.listSets)
	r.GET("/sets/:code", h.getSet)
	r.GET("/cards", h.listCards)
	r.GET("/cards/:uuid", h.getCard)
	r.GET("/tokens", h.listTokens)
	r.GET("/tokens/:uuid", h.getCard)
	r.GET("/lookup/:kind/:id", h.lookup)

	r.POST("/admin/token", h.adminToken)

	admin := r.Group("/admin")
	admin.Use(auth.AuthMiddleware(h.Tokens))
	admin.POST("/rebuild", h.rebuild)
}

func (h *Handler) listSets(c *gin.Context) {
	sets, err := h.Repo.ListSets(c.Request.Context())
	if err != nil {
		h.logger.Error("list sets failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sets": sets})
}

func (h *Handler) getSet(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	s, err := h.Repo.GetSet(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("get set failed", zap.String("setCode", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) listCards(c *gin.Context) {
	h.list(c, false)
}

func (h *Handler) listTokens(c *gin.Context) {
	h.list(c, true)
}

func (h *Handler) list(c *gin.Context, tokens bool) {
	q := ListQuery{
		Q:       c.Query("q"),
		SetCode: strings.ToUpper(c.Query("set")),
		Tokens:  tokens,
		Limit:   parseInt(c.Query("limit"), 20),
		Offset:  parseInt(c.Query("offset"), 0),
	}

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		h.logger.Error("count failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		h.logger.Error("list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getCard(c *gin.Context) {
	uuid := c.Param("uuid")
	card, _, err := h.Repo.GetByUUID(c.Request.Context(), uuid)
	if err != nil {
		h.logger.Error("get card failed", zap.String("uuid", uuid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, card)
}

// lookup resolves an external marketplace or platform identifier to the
// primary identifier, e.g. GET /lookup/tcgplayer/12345.
func (h *Handler) lookup(c *gin.Context) {
	kind := strings.ToLower(c.Param("kind"))
	id := c.Param("id")

	uuid, err := h.Repo.LookupUUID(c.Request.Context(), kind, id)
	if err != nil {
		h.logger.Error("lookup failed", zap.String("kind", kind), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if uuid == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "external_id": id, "uuid": uuid})
}

type adminTokenRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *Handler) adminToken(c *gin.Context) {
	var req adminTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
		return
	}

	if h.AdminHash == "" || auth.CheckPassword(h.AdminHash, req.Password) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, exp, err := h.Tokens.Sign()
	if err != nil {
		h.logger.Error("sign token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp})
}

type rebuildRequest struct {
	Sets []string `json:"sets"`
}

func (h *Handler) rebuild(c *gin.Context) {
	if h.Builder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rebuild not available"})
		return
	}

	var req rebuildRequest
	_ = c.ShouldBindJSON(&req)
	for i, s := range req.Sets {
		req.Sets[i] = strings.ToUpper(s)
	}

	// The rebuild runs in the background; progress goes out over /ws.
	go func(sets []string) {
		if err := h.Builder.Rebuild(sets); err != nil {
			h.logger.Error("rebuild failed", zap.Error(err))
		}
	}(req.Sets)

	c.JSON(http.StatusAccepted, gin.H{"status": "rebuild started", "sets": req.Sets})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
