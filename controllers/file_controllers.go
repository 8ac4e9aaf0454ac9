package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imprimerie/print-shop-app/utils"
)

// Upload limits for print-ready artwork. PDFs dominate in practice.
const maxUploadBytes = 50 << 20

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
	".ai":   true,
	".psd":  true,
	".svg":  true,
}

type FileController struct {
	UploadDir     string
	PublicBaseURL string
}

func NewFileController(uploadDir, publicBaseURL string) *FileController {
	return &FileController{UploadDir: uploadDir, PublicBaseURL: publicBaseURL}
}

// UploadFiles accepts a multipart form ("files" field, possibly repeated),
// stores each file under a uuid name and returns the public references the
// client then attaches to an order item.
func (fc *FileController) UploadFiles(c *gin.Context) {
	userID, _ := currentUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("aucun fichier fourni"))
		return
	}

	if err := os.MkdirAll(fc.UploadDir, 0o755); err != nil {
		utils.ErrorLogger.Printf("Failed to create upload dir %s: %v", fc.UploadDir, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type uploaded struct {
		OriginalName string `json:"original_name"`
		StoredName   string `json:"stored_name"`
		URL          string `json:"url"`
		Size         int64  `json:"size"`
	}
	results := make([]uploaded, 0, len(files))

	for _, file := range files {
		if file.Size > maxUploadBytes {
			utils.RespondError(c, http.StatusRequestEntityTooLarge,
				fmt.Errorf("fichier trop volumineux: %s", file.Filename))
			return
		}
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedExtensions[ext] {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("type de fichier non autorisé: %s", ext))
			return
		}

		storedName := uuid.NewString() + ext
		dst := filepath.Join(fc.UploadDir, storedName)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			utils.ErrorLogger.Printf("Failed to save upload %s: %v", file.Filename, err)
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}

		results = append(results, uploaded{
			OriginalName: file.Filename,
			StoredName:   storedName,
			URL:          fc.PublicBaseURL + "/uploads/" + storedName,
			Size:         file.Size,
		})
	}

	utils.InfoLogger.Printf("User %d uploaded %d file(s)", userID, len(results))
	utils.RespondJSON(c, http.StatusCreated, "Fichiers téléversés", results)
}

// DeleteFile removes a stored file by its uuid name. The name is validated so
// the handler cannot be walked outside the upload directory.
func (fc *FileController) DeleteFile(c *gin.Context) {
	name := c.Param("file_name")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("nom de fichier invalide"))
		return
	}

	path := filepath.Join(fc.UploadDir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			utils.RespondError(c, http.StatusNotFound, fmt.Errorf("fichier non trouvé"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Fichier supprimé", gin.H{"file_name": name})
}
