package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Фатальные ошибки загрузки каталога
	ErrStoreNotFound     = fmt.Errorf("embedding store not found")
	ErrDimensionMismatch = fmt.Errorf("embedding dimension mismatch")

	// Внутренние ошибки с векторами
	ErrEmptyVectors          = fmt.Errorf("empty vectors")
	ErrVectorEmbeddingEmpty  = fmt.Errorf("vector embedding is empty")
	ErrProductVectorMismatch = fmt.Errorf("product vector mismatch")

	// Локальные ошибки движка рекомендаций
	ErrEmptyCandidateSet = fmt.Errorf("empty candidate set")
	ErrInvalidPriceTier  = fmt.Errorf("invalid price tier")

	// Ошибки внешних сервисов
	ErrExternalServiceFailure = fmt.Errorf("external service failure")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidTopN          = fmt.Errorf("top_n must be positive")
	ErrNoImage              = fmt.Errorf("no image provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")

	// 404 Not Found
	ErrStatusNotFound = fmt.Errorf("not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
