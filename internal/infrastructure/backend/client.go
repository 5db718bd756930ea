// Package backend adaptador REST hacia la API de MyDeepTech (usuarios, roles, estadísticas).
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/repository"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/token"
	"github.com/mydeeptech/admin-dashboard/pkg/config"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa RoleBackend.
var _ repository.RoleBackend = (*Client)(nil)

// maxErrorBody límite de bytes del cuerpo que se copia a los mensajes de error.
const maxErrorBody = 512

// Client adaptador que implementa RoleBackend usando resty.
// No reintenta: cualquier reintento es una acción manual del usuario.
type Client struct {
	http   *resty.Client
	paths  config.BackendConfig
	tokens token.Source
	log    *logger.Logger
}

// NewClient construye el adaptador. tokens puede ser nil (peticiones sin autenticar).
func NewClient(cfg config.BackendConfig, tokens token.Source, log *logger.Logger) *Client {
	log = logger.OrNop(log).Named("backend")
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{log: log})
	if tokens == nil {
		tokens = token.Chain()
	}
	return &Client{http: httpClient, paths: cfg, tokens: tokens, log: log}
}

// errorBody formas habituales del cuerpo de error del backend.
type errorBody struct {
	Message         string    `json:"message"`
	Error           string    `json:"error"`
	ResponseCode    flexCode  `json:"responseCode"`
	ResponseMessage string    `json:"responseMessage"`
}

func (b errorBody) text() string {
	for _, s := range []string{b.Message, b.ResponseMessage, b.Error} {
		if strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// flexCode acepta responseCode como string ("200") o número (200).
type flexCode string

func (c *flexCode) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = flexCode(strings.TrimSpace(s))
		return nil
	}
	if string(b) == "null" {
		*c = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = flexCode(n.String())
	return nil
}

// request prepara una petición con contexto y bearer token (si hay).
func (c *Client) request(ctx context.Context, op string) (*resty.Request, error) {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, &domain.APIError{Kind: domain.ErrTransport, Operation: op, Err: err}
	}
	req := c.http.R().SetContext(ctx)
	if tok != "" {
		req.SetAuthToken(tok)
	} else {
		c.log.Debug().Str("op", op).Msg("petición sin token: el backend decidirá")
	}
	return req, nil
}

// do ejecuta la petición y decodifica el cuerpo 2xx en out.
// Mapea fallos: red/decodificación -> ErrTransport; no 2xx -> ErrHTTPStatus.
func (c *Client) do(req *resty.Request, method, path, op string, out any) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Str("path", path).Msg("fallo de transporte")
		return &domain.APIError{Kind: domain.ErrTransport, Operation: op, Err: err}
	}

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("elapsed", resp.Time()).
		Msg("llamada al backend")

	if !resp.IsSuccess() {
		var body errorBody
		_ = json.Unmarshal(resp.Body(), &body)
		apiErr := &domain.APIError{
			Kind:      domain.ErrHTTPStatus,
			Operation: op,
			Status:    resp.StatusCode(),
			Code:      string(body.ResponseCode),
			Message:   body.text(),
		}
		if apiErr.Message == "" {
			apiErr.Err = fmt.Errorf("%s", truncate(string(resp.Body()), maxErrorBody))
		}
		c.log.Warn().Str("op", op).Int("status", resp.StatusCode()).Str("message", apiErr.Message).Msg("respuesta no exitosa")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		c.log.Warn().Err(err).Str("op", op).Msg("respuesta ilegible")
		return &domain.APIError{Kind: domain.ErrTransport, Operation: op, Status: resp.StatusCode(), Err: fmt.Errorf("decodificar respuesta: %w", err)}
	}
	return nil
}

// userPath sustituye :userId en la plantilla configurada.
func userPath(tpl, userID string) string {
	return strings.ReplaceAll(tpl, ":userId", url.PathEscape(userID))
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
