// cmd/tools/worker-generator/scaffold.go
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"
	"time"

	"pro-discovery/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name         string
	PackageName  string
	TaskType     string
	Description  string
	Timeout      string
	InputFields  []Field
	OutputFields []Field
	ErrorCodes   []string
}

// Field is one generated struct field.
type Field struct {
	GoName  string
	GoType  string
	JSONTag string
}

func newWorkerData(a registry.Activity) WorkerData {
	return WorkerData{
		Name:         a.DisplayName,
		PackageName:  strings.ReplaceAll(a.ID, "-", ""),
		TaskType:     a.TaskType,
		Description:  a.Description,
		Timeout:      goDuration(a.Timeout),
		InputFields:  schemaFields(a.InputSchema),
		OutputFields: schemaFields(a.OutputSchema),
		ErrorCodes:   a.ErrorCodes,
	}
}

// goDuration renders a registry timeout as a Go duration expression.
func goDuration(s string) string {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return "10 * time.Second"
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	}
	return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
}

// schemaFields turns the top-level properties of a JSON schema into sorted struct fields.
func schemaFields(schema map[string]interface{}) []Field {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		fields = append(fields, Field{
			GoName:  upperFirst(name),
			GoType:  goType(details["type"]),
			JSONTag: fmt.Sprintf("`json:\"%s\"`", name),
		})
	}
	return fields
}

// goType maps a JSON schema type (or the first non-null entry of a type list) to a Go type.
func goType(t interface{}) string {
	if list, ok := t.([]interface{}); ok {
		for _, entry := range list {
			if s, _ := entry.(string); s != "" && s != "null" {
				return goType(s)
			}
		}
		return "interface{}"
	}
	switch t {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Render produces the scaffold files for an activity, gofmt'ed.
func Render(a registry.Activity) (map[string][]byte, error) {
	data := newWorkerData(a)
	files := make(map[string][]byte, len(scaffoldTemplates))

	for name, src := range scaffoldTemplates {
		tmpl, err := template.New(name).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("execute template %s: %w", name, err)
		}
		out, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", name, err)
		}
		files[name] = out
	}
	return files, nil
}

var scaffoldTemplates = map[string]string{
	"handler.go":      handlerTemplate,
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler_test.go": testTemplate,
}

const handlerTemplate = `// Package {{ .PackageName }} implements the {{ .TaskType }} job worker.
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"pro-discovery/internal/common/camunda"
	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/common/metrics"
)

const TaskType = "{{ .TaskType }}"

type Handler struct {
	config       *Config
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	done := metrics.TrackJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := h.errorHandler.HandleJobError(ctx, client, job, apperrors.NewInvalidSearchRequestError(err.Error()))
		done(string(stdErr.Code))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		stdErr := h.errorHandler.HandleJobError(ctx, client, job, err)
		done(string(stdErr.Code))
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output, h.logger); err != nil {
		done(string(apperrors.ErrCodeInternal))
		return
	}
	done("")
}

// Execute: {{ .Description }}
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return nil, apperrors.NewInternalError(fmt.Errorf("%s is not implemented", TaskType))
}
`

const configTemplate = `package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: {{ .Timeout }},
	}
}
`

const modelsTemplate = `package {{ .PackageName }}

type Input struct {
{{- range .InputFields }}
	{{ .GoName }} {{ .GoType }} {{ .JSONTag }}
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .GoName }} {{ .GoType }} {{ .JSONTag }}
{{- end }}
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pro-discovery/internal/common/logger"
)

func createTestConfig() *Config {
	return LoadConfig()
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	handler := NewHandler(createTestConfig(), createTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	// Error codes: {{ range $i, $c := .ErrorCodes }}{{ if $i }}, {{ end }}{{ $c }}{{ end }}
	require.Error(t, err)
	assert.Nil(t, output)
}
`
