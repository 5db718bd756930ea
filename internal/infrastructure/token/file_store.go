package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var _ Source = (*FileStore)(nil)

// FileStore persiste el token en un archivo JSON local (el equivalente del localStorage del navegador).
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

type storedToken struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// NewFileStore construye el store; el archivo se crea en el primer Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path ruta del archivo.
func (s *FileStore) Path() string { return s.path }

// Token lee el token persistido. Si el archivo no existe devuelve "" sin error.
func (s *FileStore) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("token: leer %s: %w", s.path, err)
	}
	var st storedToken
	if err := json.Unmarshal(raw, &st); err != nil {
		return "", fmt.Errorf("token: archivo corrupto %s: %w", s.path, err)
	}
	return st.Token, nil
}

// Save persiste el token (permisos 0600).
func (s *FileStore) Save(tok string) error {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return fmt.Errorf("token: vacío")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("token: crear directorio: %w", err)
		}
	}
	raw, err := json.Marshal(storedToken{Token: tok, SavedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("token: serializar: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("token: escribir %s: %w", s.path, err)
	}
	return nil
}

// Clear elimina el token persistido; no falla si no existía.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("token: eliminar %s: %w", s.path, err)
	}
	return nil
}
