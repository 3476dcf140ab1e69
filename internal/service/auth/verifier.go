// Package auth сопоставляет предъявленные токены с пользователями.
// Выпуск токенов выполняется внешним сервисом; здесь только проверка.
package auth

import (
	"context"
	"strings"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

// StaticVerifier проверяет токены по фиксированной таблице token → user id.
// Таблица задаётся конфигурацией при старте и дальше не меняется.
type StaticVerifier struct {
	tokens map[string]string
}

// NewStaticVerifier строит verifier из таблицы token → user id.
func NewStaticVerifier(tokens map[string]string) *StaticVerifier {
	copied := make(map[string]string, len(tokens))
	for token, userID := range tokens {
		token = strings.TrimSpace(token)
		if token == "" || userID == "" {
			continue
		}
		copied[token] = userID
	}
	return &StaticVerifier{tokens: copied}
}

// Verify возвращает идентификатор пользователя для известного токена.
func (v *StaticVerifier) Verify(_ context.Context, token string) (string, error) {
	userID, ok := v.tokens[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return userID, nil
}

var _ domain.TokenVerifier = (*StaticVerifier)(nil)
