package services

import "net/http"

// AppError is a domain error carrying the HTTP status the transport layer
// should answer with. Domain errors are never retried automatically.
type AppError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

// NotFound
var (
	ErrServiceNotFound      = NewAppError(http.StatusNotFound, "service non trouvé")
	ErrOrderNotFound        = NewAppError(http.StatusNotFound, "commande non trouvée")
	ErrItemIndexOutOfRange  = NewAppError(http.StatusNotFound, "article non trouvé")
	ErrUserNotFound         = NewAppError(http.StatusNotFound, "utilisateur non trouvé")
	ErrNotificationNotFound = NewAppError(http.StatusNotFound, "notification non trouvée")
	ErrConversationNotFound = NewAppError(http.StatusNotFound, "conversation non trouvée")
)

// InvalidInput
var (
	ErrEmptyItems        = NewAppError(http.StatusBadRequest, "au moins un article est requis")
	ErrInvalidQuantity   = NewAppError(http.StatusBadRequest, "quantité hors limites")
	ErrServiceInactive   = NewAppError(http.StatusBadRequest, "service non disponible")
	ErrMissingOption     = NewAppError(http.StatusBadRequest, "option requise manquante")
	ErrInvalidStatus     = NewAppError(http.StatusBadRequest, "statut invalide")
	ErrInvalidCategory   = NewAppError(http.StatusBadRequest, "catégorie invalide")
	ErrInvalidPriority   = NewAppError(http.StatusBadRequest, "priorité invalide")
	ErrInvalidQtyBounds  = NewAppError(http.StatusBadRequest, "bornes de quantité invalides")
	ErrNegativeBasePrice = NewAppError(http.StatusBadRequest, "le prix de base ne peut pas être négatif")
	ErrIllegalTransition = NewAppError(http.StatusBadRequest, "transition de statut non autorisée")
)

// Forbidden
var (
	ErrForbidden = NewAppError(http.StatusForbidden, "accès non autorisé")
)

// Conflict
var (
	ErrVersionConflict   = NewAppError(http.StatusConflict, "la commande a été modifiée entre-temps")
	ErrServiceReferenced = NewAppError(http.StatusConflict, "service référencé par des commandes existantes")
)
