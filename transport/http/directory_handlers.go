package http

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/service"
)

// DirectoryHandlers serves projects, people, stats and avatars.
type DirectoryHandlers struct {
	directory *service.DirectoryService
	avatars   *service.AvatarService
}

func NewDirectoryHandlers(directory *service.DirectoryService, avatars *service.AvatarService) *DirectoryHandlers {
	return &DirectoryHandlers{directory: directory, avatars: avatars}
}

func (h *DirectoryHandlers) ListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, h.directory.SearchProjects(c.Request.Context(), c.Query("q"), c.Query("category")))
}

func (h *DirectoryHandlers) GetProject(c *gin.Context) {
	project := h.directory.GetProject(c.Request.Context(), c.Param("id"))
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *DirectoryHandlers) CreateProject(c *gin.Context) {
	var req core.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	req.ID = ""

	project, err := h.directory.CreateProject(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *DirectoryHandlers) UpdateProject(c *gin.Context) {
	var patch core.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.directory.UpdateProject(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *DirectoryHandlers) DeleteProject(c *gin.Context) {
	if err := h.directory.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DirectoryHandlers) ListPeople(c *gin.Context) {
	c.JSON(http.StatusOK, h.directory.SearchPeople(c.Request.Context(), c.Query("q"), c.Query("role")))
}

func (h *DirectoryHandlers) GetPerson(c *gin.Context) {
	person := h.directory.GetPerson(c.Request.Context(), c.Param("id"))
	if person == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
		return
	}
	c.JSON(http.StatusOK, person)
}

func (h *DirectoryHandlers) GetPersonByWallet(c *gin.Context) {
	person := h.directory.GetPersonByWallet(c.Request.Context(), c.Param("address"))
	if person == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
		return
	}
	c.JSON(http.StatusOK, person)
}

// CreatePerson creates the profile of the caller's wallet. Moderators may
// create profiles for other wallets.
func (h *DirectoryHandlers) CreatePerson(c *gin.Context) {
	var req core.Person
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	req.ID = ""

	claims := claimsFrom(c)
	if req.WalletAddress == "" || !claims.Role.CanModerate() {
		req.WalletAddress = claims.Address
	}

	person, err := h.directory.CreateProfile(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, person)
}

func (h *DirectoryHandlers) UpdatePerson(c *gin.Context) {
	var patch core.PersonPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !h.canEditPerson(c) {
		return
	}

	person, err := h.directory.UpdatePerson(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

func (h *DirectoryHandlers) DeletePerson(c *gin.Context) {
	if !h.canEditPerson(c) {
		return
	}
	if err := h.directory.DeletePerson(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// canEditPerson aborts the request unless the caller owns the profile or moderates.
func (h *DirectoryHandlers) canEditPerson(c *gin.Context) bool {
	claims := claimsFrom(c)
	person := h.directory.GetPerson(c.Request.Context(), c.Param("id"))
	if person == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Person not found"})
		return false
	}
	if !strings.EqualFold(person.WalletAddress, claims.Address) && !claims.Role.CanModerate() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return false
	}
	return true
}

func (h *DirectoryHandlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.directory.Stats(c.Request.Context()))
}

func (h *DirectoryHandlers) ProjectsByCategory(c *gin.Context) {
	c.JSON(http.StatusOK, h.directory.ProjectsByCategory(c.Request.Context()))
}

func (h *DirectoryHandlers) PeopleByRole(c *gin.Context) {
	c.JSON(http.StatusOK, h.directory.PeopleByRole(c.Request.Context()))
}

// UploadAvatar stores the multipart "file" field as the caller's avatar.
func (h *DirectoryHandlers) UploadAvatar(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}
	if header.Size > service.MaxAvatarSize {
		abortWithError(c, core.ErrAvatarTooLarge)
		return
	}

	file, err := header.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxAvatarSize+1))
	if err != nil {
		abortWithError(c, err)
		return
	}

	url, err := h.avatars.Upload(c.Request.Context(), claimsFrom(c).Address, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// DeleteAvatar removes an avatar uploaded by the caller.
func (h *DirectoryHandlers) DeleteAvatar(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	claims := claimsFrom(c)
	owner := strings.ToLower(claims.Address) + "-"
	if !strings.HasPrefix(path.Base(req.URL), owner) && !claims.Role.CanModerate() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := h.avatars.Delete(c.Request.Context(), req.URL); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
