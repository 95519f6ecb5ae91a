package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pccclearclinic/form-filling-template/internal/app"
	"github.com/pccclearclinic/form-filling-template/pkg/delivery"
	"github.com/pccclearclinic/form-filling-template/pkg/engine"
	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

type errorResponse struct {
	Error     string         `json:"error"`
	Issues    []intake.Issue `json:"issues,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

type documentSummary struct {
	Document registry.DocumentID `json:"document"`
	Filename string              `json:"filename"`
	Template string              `json:"template"`
}

type fieldSummary struct {
	ID       string             `json:"id"`
	Kind     registry.FieldKind `json:"kind"`
	Label    string             `json:"label,omitempty"`
	Required bool               `json:"required,omitempty"`
	Options  []string           `json:"options,omitempty"`
	Targets  []string           `json:"targets"`
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListDocuments describes every supported document.
func ListDocuments(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := make([]documentSummary, 0, len(registry.Documents()))
		for _, doc := range registry.Documents() {
			layout, ok := a.Registry.Layout(doc)
			if !ok {
				continue
			}
			out = append(out, documentSummary{Document: doc, Filename: layout.Filename, Template: layout.Template})
		}
		c.JSON(http.StatusOK, out)
	}
}

// ListFields returns the intake fields that land on one document.
func ListFields(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := documentParam(c)
		if !ok {
			return
		}
		fields := a.Registry.FieldsFor(doc)
		out := make([]fieldSummary, 0, len(fields))
		for _, field := range fields {
			out = append(out, fieldSummary{
				ID:       field.ID,
				Kind:     field.Kind,
				Label:    field.Label,
				Required: field.Required,
				Options:  field.Options,
				Targets:  engine.ResolveTargets(field, doc),
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

// GenerateDocument fills one document from a JSON intake body and returns it
// as an attachment.
func GenerateDocument(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := documentParam(c)
		if !ok {
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, a.Config.Server.MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				abort(c, http.StatusRequestEntityTooLarge, err)
				return
			}
			abort(c, http.StatusBadRequest, err)
			return
		}
		rec, err := intake.Decode(body)
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}

		ctx := c.Request.Context()
		result, err := a.Assembler.Generate(ctx, engine.Request{Document: doc, Record: rec})
		if err != nil {
			abort(c, statusFor(err), err)
			return
		}
		if err := a.Assembler.Deliver(ctx, a.Dispatcher(delivery.HTTPSink{W: c.Writer}), result); err != nil {
			// Headers may already be written; log and stop.
			a.Logger.Warn("deliver response failed",
				zap.String("request_id", c.GetString(requestIDKey)),
				zap.Error(err),
			)
			c.Abort()
		}
	}
}

func documentParam(c *gin.Context) (registry.DocumentID, bool) {
	doc, err := registry.ParseDocumentID(c.Param("document"))
	if err != nil {
		abort(c, http.StatusNotFound, err)
		return "", false
	}
	return doc, true
}

func statusFor(err error) int {
	switch engine.Outcome(err) {
	case engine.OutcomeInvalidIntake:
		return http.StatusUnprocessableEntity
	case engine.OutcomeTemplateFetch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, status int, err error) {
	resp := errorResponse{Error: err.Error(), RequestID: c.GetString(requestIDKey)}
	var verr *intake.ValidationError
	if errors.As(err, &verr) {
		resp.Issues = verr.Issues
	}
	c.AbortWithStatusJSON(status, resp)
}
