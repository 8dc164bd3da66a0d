// Package server is the reference gateway: an in-memory HTTP implementation
// of the collaborator contract the workflow core submits entities to. It is
// meant for demos and tests; it validates candidates, assigns missing ids
// and timestamps, and enforces the same lifecycle rules the core does.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ohap/internal/domain"
	"ohap/internal/lifecycle"
	"ohap/internal/validate"
)

// Config for the HTTP handler.
type Config struct {
	BasePath string
	Now      func() time.Time
	Quiet    bool
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"invalid_transition"`
	Message string         `json:"message" example:"proposal in status \"rejected\" does not permit acceptProposal"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

// validationFailed carries the validator's field errors into the envelope.
type validationFailed struct {
	Kind   domain.Kind
	Errors []validate.FieldError
}

func (e *validationFailed) Error() string {
	return fmt.Sprintf("%s failed validation (%d errors)", e.Kind, len(e.Errors))
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var vf *validationFailed
	if errors.As(err, &vf) {
		return newAPIError(http.StatusUnprocessableEntity, "validation_failed", vf.Error(), map[string]any{
			"errors": vf.Errors,
		})
	}
	var it *lifecycle.InvalidTransitionError
	if errors.As(err, &it) {
		return newAPIError(http.StatusConflict, "invalid_transition", it.Error(), map[string]any{
			"kind":      it.Kind,
			"status":    it.Current,
			"operation": it.Op,
		})
	}
	switch {
	case errors.Is(err, errNotFound):
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, errConflict):
		return newAPIError(http.StatusConflict, "conflict", err.Error(), nil)
	default:
		return newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
	}
}

type gatewayAPI struct {
	store  *store
	engine lifecycle.Engine
}

// New returns an HTTP handler implementing the gateway contract over an
// in-memory store.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	g := &gatewayAPI{
		store:  newStore(now),
		engine: lifecycle.Engine{Now: now},
	}

	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}

	router := chi.NewRouter()
	if !cfg.Quiet {
		router.Use(middleware.Logger)
	}
	router.Use(middleware.Recoverer)
	hcfg := huma.DefaultConfig("OHAP Reference Gateway", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	api := humachi.New(router, hcfg)
	group := api
	if basePath != "/" {
		group = huma.NewGroup(api, basePath)
	}

	registerHealth(group)
	g.registerTasks(group)
	g.registerProposals(group)
	g.registerContracts(group)
	g.registerDeliverables(group)
	g.registerReviews(group)

	return router, nil
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

// decodeBody unmarshals a raw candidate. Strict enum decoding rejects
// unrecognized status literals here, before any store write.
func decodeBody[T any](raw []byte) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, errors.New("body required")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

// mergePatch applies partial fields onto the stored entity's wire form and
// re-decodes the result, so enum strictness applies to patched values too.
func mergePatch[T any](current T, fields map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(current)
	if err != nil {
		return out, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return out, err
	}
	for k, v := range fields {
		if v == nil {
			delete(m, k)
			continue
		}
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, err
	}
	return out, nil
}

func decodeFields(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, errors.New("body required")
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if _, ok := fields["id"]; ok {
		return nil, errors.New("id is immutable")
	}
	return fields, nil
}

type rawBodyInput struct {
	RawBody []byte `contentType:"application/json"`
}

type idInput struct {
	ID string `path:"id"`
}

type patchInput struct {
	ID      string `path:"id"`
	RawBody []byte `contentType:"application/json"`
}

func (g *gatewayAPI) registerTasks(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create task",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *rawBodyInput) (*struct {
		Body domain.Task `json:"body"`
	}, error) {
		candidate, err := decodeBody[domain.Task](input.RawBody)
		if err != nil {
			return nil, handleError(err)
		}
		t, err := g.engine.CreateTask(candidate)
		if err != nil {
			return nil, handleError(err)
		}
		if errs := validate.Task(t); len(errs) > 0 {
			return nil, handleError(&validationFailed{Kind: domain.KindTask, Errors: errs})
		}
		if err := g.store.insertTask(t); err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Task `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get task",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idInput) (*struct {
		Body domain.Task `json:"body"`
	}, error) {
		t, err := g.store.getTask(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Task `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}",
		Summary:     "Update task",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *patchInput) (*struct {
		Body domain.Task `json:"body"`
	}, error) {
		current, err := g.store.getTask(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		fields, err := decodeFields(input.RawBody)
		if err != nil {
			return nil, handleError(err)
		}
		updated, err := mergePatch(current, fields)
		if err != nil {
			return nil, handleError(err)
		}
		if updated.Status != current.Status && !lifecycle.TaskTransitionAllowed(current.Status, updated.Status) {
			return nil, handleError(&lifecycle.InvalidTransitionError{
				Kind: domain.KindTask, Current: string(current.Status), Op: "update",
			})
		}
		if errs := validate.Task(updated); len(errs) > 0 {
			return nil, handleError(&validationFailed{Kind: domain.KindTask, Errors: errs})
		}
		g.store.putTask(updated)
		return &struct {
			Body domain.Task `json:"body"`
		}{Body: updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
	}, func(ctx context.Context, input *struct {
		Status      string `query:"status"`
		InitiatorID string `query:"initiator_id"`
		Domain      string `query:"domain"`
	}) (*struct {
		Body struct {
			Items []domain.Task `json:"items"`
		} `json:"body"`
	}, error) {
		items := g.store.listTasks(func(t domain.Task) bool {
			if input.Status != "" && string(t.Status) != input.Status {
				return false
			}
			if input.InitiatorID != "" && t.Initiator.ID != input.InitiatorID {
				return false
			}
			if input.Domain != "" && (t.Metadata == nil || t.Metadata.Domain != input.Domain) {
				return false
			}
			return true
		})
		resp := &struct {
			Body struct {
				Items []domain.Task `json:"items"`
			} `json:"body"`
		}{}
		resp.Body.Items = items
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-task-proposals",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}/proposals",
		Summary:     "List proposals for a task",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idInput) (*struct {
		Body struct {
			Items []domain.Proposal `json:"items"`
		} `json:"body"`
	}, error) {
		if _, err := g.store.getTask(input.ID); err != nil {
			return nil, handleError(err)
		}
		resp := &struct {
			Body struct {
				Items []domain.Proposal `json:"items"`
			} `json:"body"`
		}{}
		resp.Body.Items = g.store.listProposals(func(p domain.Proposal) bool {
			return p.TaskID == input.ID
		})
		return resp, nil
	})
}

func (g *gatewayAPI) registerProposals(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-proposal",
		Method:        http.MethodPost,
		Path:          "/proposals",
		Summary:       "Submit proposal",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *rawBodyInput) (*struct {
		Body domain.Proposal `json:"body"`
	}, error) {
		candidate, err := decodeBody[domain.Proposal](input.RawBody)
		if err != nil {
			return nil, handleError(err)
		}
		task, err := g.store.getTask(candidate.TaskID)
		if err != nil {
			return nil, handleError(fmt.Errorf("task %q: %w", candidate.TaskID, err))
		}
		p, task, err := g.engine.SubmitProposal(task, candidate)
		if err != nil {
			return nil, handleError(err)
		}
		if errs := validate.Proposal(p); len(errs) > 0 {
			return nil, handleError(&validationFailed{Kind: domain.KindProposal, Errors: errs})
		}
		if err := g.store.insertProposal(p); err != nil {
			return nil, handleError(err)
		}
		g.store.putTask(task)
		return &struct {
			Body domain.Proposal `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-proposal",
		Method:      http.MethodGet,
		Path:        "/proposals/{id}",
		Summary:     "Get proposal",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idInput) (*struct {
		Body domain.Proposal `json:"body"`
	}, error) {
		p, err := g.store.getProposal(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Proposal `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-proposal",
		Method:      http.MethodPatch,
		Path:        "/proposals/{id}",
		Summary:     "Update proposal",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *patchInput) (*struct {
		Body domain.Proposal `json:"body"`
	}, error) {
		current, err := g.store.getProposal(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		fields, err := decodeFields(input.RawBody)
		if err != nil {
			return nil, handleError(err)
		}
		updated, err := mergePatch(current, fields)
		if err != nil {
			return nil, handleError(err)
		}
		if updated.Status != current.Status && !lifecycle.ProposalTransitionAllowed(current.Status, updated.Status) {
			return nil, handleError(&lifecycle.InvalidTransitionError{
				Kind: domain.KindProposal, Current: string(current.Status), Op: "update",
			})
		}
		if errs := validate.Proposal(updated); len(errs) > 0 {
			return nil, handleError(&validationFailed{Kind: domain.KindProposal, Errors: errs})
		}
		g.store.putProposal(updated)
		return &struct {
			Body domain.Proposal `json:"body"`
		}{Body: updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-proposals",
		Method:      http.MethodGet,
		Path:        "/proposals",
		Summary:     "List proposals",
	}, func(ctx context.Context, input *struct {
		TaskID string `query:"task_id"`
		Status string `query:"status"`
	}) (*struct {
		Body struct {
			Items []domain.Proposal `json:"items"`
		} `json:"body"`
	}, error) {
		resp := &struct {
			Body struct {
				Items []domain.Proposal `json:"items"`
			} `json:"body"`
		}{}
		resp.Body.Items = g.store.listProposals(func(p domain.Proposal) bool {
			if input.TaskID != "" && p.TaskID != input.TaskID {
				return false
			}
			if input.Status != "" && string(p.Status) != input.Status {
				return false
			}
			return true
		})
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "accept-proposal",
		Method:        http.MethodPost,
		Path:          "/proposals/{id}/accept",
		Summary:       "Accept proposal and create contract",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *idInput) (*struct {
		Body domain.Contract `json:"body"`
	}, error) {
		p, err := g.store.getProposal(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		t, err := g.store.getTask(p.TaskID)
		if err != nil {
			return nil, handleError(fmt.Errorf("task %q: %w", p.TaskID, err))
		}
		c, p, t, err := g.engine.AcceptProposal(t, p)
		if err != nil {
			return nil, handleError(err)
		}
		c.ID = domain.NewID(domain.IDPrefixContract, g.store.now())
		if errs := validate.Contract(c); len(errs) > 0 {
			return nil, handleError(&validationFailed{Kind: domain.KindContract, Errors: errs})
		}
		if err := g.store.insertContract(c); err != nil {
			return nil, handleError(err)
		}
		g.store.putProposal(p)
		g.store.putTask(t)
		return &struct {
			Body domain.Contract `json:"body"`
		}{Body: c}, nil
	})
}

func (g *gatewayAPI) registerContracts(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-contract",
		Method:      http.MethodGet,
		Path:        "/contracts/{id}",
		Summary:     "Get contract",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idInput) (*struct {
		Body domain.Contract `json:"body"`
	}, error) {
		c, err := g.store.getContract(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Contract `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-contract",
		Method:      http.MethodPatch,
		Path:        "/contracts/{id}",
		Summary:     "Update contract",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *patchInput) (*struct {
		Body domain.Contract `json:"body"`
	}, error) {
		current, err := g.store.getContract(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		fields, err := decodeFields(input.RawBody)
		if err != nil {
			return nil, handleError(err)
		}
		updated, err := mergePatch(current, fields)
		if err != nil {
			return nil, handleError(err)
		}
		if updated.Status != current.Status {
			if !lifecycle.ContractTransitionAllowed(current.Status, updated.Status) {
				return nil, handleError(&lifecycle.InvalidTransitionError{
					Kind: domain.KindContract, Current: string(current.Status), Op: "update",
				})
			}
			if updated.Status == domain.ContractCompleted && updated.CompletedAt == "" {
				updated.CompletedAt = domain.Timestamp(g.store.now())
			}
		}
		if errs := validate.Contract(updated); len(errs) > 0 {
			return nil, handleError(&validationFailed{Kind: domain.KindContract, Errors: errs})
		}
		g.store.putContract(updated)
		return &struct {
			Body domain.Contract `json:"body"`
		}{Body: updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-contracts",
		Method:      http.MethodGet,
		Path:        "/contracts",
		Summary:     "List contracts",
	}, func(ctx context.Context, input *struct {
		TaskID string `query:"task_id"`
		Status string `query:"status"`
	}) (*struct {
		Body struct {
			Items []domain.Contract `json:"items"`
		} `json:"body"`
	}, error) {
		resp := &struct {
			Body struct {
				Items []domain.Contract `json:"items"`
			} `json:"body"`
		}{}
		resp.Body.Items = g.store.listContracts(func(c domain.Contract) bool {
			if input.TaskID != "" && c.TaskID != input.TaskID {
				return false
			}
			if input.Status != "" && string(c.Status) != input.Status {
				return false
			}
			return true
		})
		return resp, nil
	})
}

func (g *gatewayAPI) registerDeliverables(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-deliverable",
		Method:        http.MethodPost,
		Path:          "/deliverables",
		Summary:       "Submit deliverable",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *rawBodyInput) (*struct {
		Body domain.Deliverable `json:"body"`
	}, error) {
		candidate, err := decodeBody[domain.Deliverable](input.RawBody)
		if err != nil {
			return nil, handleError(err)
		}
		c, err := g.store.getContract(candidate.ContractID)
		if err != nil {
			return nil, handleError(fmt.Errorf("contract %q: %w", candidate.ContractID, err))
		}
		t, err := g.store.getTask(c.TaskID)
		if err != nil {
			return nil, handleError(fmt.Errorf("task %q: %w", c.TaskID, err))
		}
		d, t, err := g.engine.SubmitDeliverable(t, c, candidate)
		if err != nil {
			return nil, handleError(err)
		}
		if errs := validate.Deliverable(d); len(errs) > 0 {
			return nil, handleError(&validationFailed{Kind: domain.KindDeliverable, Errors: errs})
		}
		if err := g.store.insertDeliverable(d); err != nil {
			return nil, handleError(err)
		}
		g.store.putTask(t)
		return &struct {
			Body domain.Deliverable `json:"body"`
		}{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-deliverable",
		Method:      http.MethodGet,
		Path:        "/deliverables/{id}",
		Summary:     "Get deliverable",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idInput) (*struct {
		Body domain.Deliverable `json:"body"`
	}, error) {
		d, err := g.store.getDeliverable(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Deliverable `json:"body"`
		}{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-deliverable",
		Method:      http.MethodPatch,
		Path:        "/deliverables/{id}",
		Summary:     "Update deliverable",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *patchInput) (*struct {
		Body domain.Deliverable `json:"body"`
	}, error) {
		current, err := g.store.getDeliverable(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		fields, err := decodeFields(input.RawBody)
		if err != nil {
			return nil, handleError(err)
		}
		updated, err := mergePatch(current, fields)
		if err != nil {
			return nil, handleError(err)
		}
		if updated.Status != current.Status && !lifecycle.DeliverableTransitionAllowed(current.Status, updated.Status) {
			return nil, handleError(&lifecycle.InvalidTransitionError{
				Kind: domain.KindDeliverable, Current: string(current.Status), Op: "update",
			})
		}
		if errs := validate.Deliverable(updated); len(errs) > 0 {
			return nil, handleError(&validationFailed{Kind: domain.KindDeliverable, Errors: errs})
		}
		g.store.putDeliverable(updated)
		return &struct {
			Body domain.Deliverable `json:"body"`
		}{Body: updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-deliverables",
		Method:      http.MethodGet,
		Path:        "/deliverables",
		Summary:     "List deliverables",
	}, func(ctx context.Context, input *struct {
		TaskID     string `query:"task_id"`
		ContractID string `query:"contract_id"`
		Status     string `query:"status"`
	}) (*struct {
		Body struct {
			Items []domain.Deliverable `json:"items"`
		} `json:"body"`
	}, error) {
		resp := &struct {
			Body struct {
				Items []domain.Deliverable `json:"items"`
			} `json:"body"`
		}{}
		resp.Body.Items = g.store.listDeliverables(func(d domain.Deliverable) bool {
			if input.TaskID != "" && d.TaskID != input.TaskID {
				return false
			}
			if input.ContractID != "" && d.ContractID != input.ContractID {
				return false
			}
			if input.Status != "" && string(d.Status) != input.Status {
				return false
			}
			return true
		})
		return resp, nil
	})
}

func (g *gatewayAPI) registerReviews(api huma.API) {
	// Reviews are immutable: create and read only, no update route.
	huma.Register(api, huma.Operation{
		OperationID:   "create-review",
		Method:        http.MethodPost,
		Path:          "/reviews",
		Summary:       "Submit review",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *rawBodyInput) (*struct {
		Body domain.Review `json:"body"`
	}, error) {
		candidate, err := decodeBody[domain.Review](input.RawBody)
		if err != nil {
			return nil, handleError(err)
		}
		d, err := g.store.getDeliverable(candidate.DeliverableID)
		if err != nil {
			return nil, handleError(fmt.Errorf("deliverable %q: %w", candidate.DeliverableID, err))
		}
		t, err := g.store.getTask(d.TaskID)
		if err != nil {
			return nil, handleError(fmt.Errorf("task %q: %w", d.TaskID, err))
		}
		r, d, t, err := g.engine.SubmitReview(t, d, candidate)
		if err != nil {
			return nil, handleError(err)
		}
		if errs := validate.Review(r); len(errs) > 0 {
			return nil, handleError(&validationFailed{Kind: domain.KindReview, Errors: errs})
		}
		if err := g.store.insertReview(r); err != nil {
			return nil, handleError(err)
		}
		g.store.putDeliverable(d)
		g.store.putTask(t)
		return &struct {
			Body domain.Review `json:"body"`
		}{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-review",
		Method:      http.MethodGet,
		Path:        "/reviews/{id}",
		Summary:     "Get review",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idInput) (*struct {
		Body domain.Review `json:"body"`
	}, error) {
		r, err := g.store.getReview(input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Review `json:"body"`
		}{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-reviews",
		Method:      http.MethodGet,
		Path:        "/reviews",
		Summary:     "List reviews",
	}, func(ctx context.Context, input *struct {
		DeliverableID string `query:"deliverable_id"`
		Decision      string `query:"decision"`
	}) (*struct {
		Body struct {
			Items []domain.Review `json:"items"`
		} `json:"body"`
	}, error) {
		resp := &struct {
			Body struct {
				Items []domain.Review `json:"items"`
			} `json:"body"`
		}{}
		resp.Body.Items = g.store.listReviews(func(r domain.Review) bool {
			if input.DeliverableID != "" && r.DeliverableID != input.DeliverableID {
				return false
			}
			if input.Decision != "" && string(r.Decision) != input.Decision {
				return false
			}
			return true
		})
		return resp, nil
	})
}
