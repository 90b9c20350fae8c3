package mockusers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/belyf/users-contract-tests/framework/mockserver"
	"github.com/belyf/users-contract-tests/logging"
	"github.com/belyf/users-contract-tests/servicedef"
)

// TransformerName is the name under which the engine registers with a mock server.
const TransformerName = "in-memory-user-transformer"

const invalidPathMarker = "/invalid"

// Transformer routes requests for the users resource to operations on its Store.
type Transformer struct {
	store        *Store
	resourcePath string
	logger       logging.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithResourcePath changes the path prefix of the resource. The default is /users.
func WithResourcePath(path string) Option {
	return func(t *Transformer) { t.resourcePath = path }
}

// WithLogger sets a logger that receives one line per handled request.
func WithLogger(l logging.Logger) Option {
	return func(t *Transformer) { t.logger = l }
}

// NewTransformer creates an engine backed by store. A nil store gets a fresh one with random
// ids.
func NewTransformer(store *Store, opts ...Option) *Transformer {
	if store == nil {
		store = NewStore(nil)
	}
	t := &Transformer{
		store:        store,
		resourcePath: servicedef.DefaultResourcePath,
		logger:       logging.NullLogger(),
	}
	for _, o := range opts {
		o(t)
	}
	if t.logger == nil {
		t.logger = logging.NullLogger()
	}
	return t
}

// Name implements mockserver.Transformer.
func (t *Transformer) Name() string { return TransformerName }

// Store returns the table this engine operates on.
func (t *Transformer) Store() *Store { return t.store }

// Records returns a snapshot of the stored users in insertion order.
func (t *Transformer) Records() []User { return t.store.List(nil) }

// ResetWithSeed clears the store and inserts seed, returning it as stored (with an id).
func (t *Transformer) ResetWithSeed(seed User) User {
	u, _ := t.store.Reset(&seed)
	t.logger.Printf("Store reset with seed user %s <%s>", u.ID, u.Email)
	return u
}

// Transform implements mockserver.Transformer.
func (t *Transformer) Transform(req mockserver.Request) mockserver.Response {
	resp := t.route(req)
	t.logger.Printf("%s %s -> %d", req.Method, req.URL(), statusOf(resp))
	return resp
}

func (t *Transformer) route(req mockserver.Request) mockserver.Response {
	path := req.Path
	if path == "/" {
		return textResponse(http.StatusOK, "OK")
	}
	if !strings.HasPrefix(path, t.resourcePath) {
		return statusResponse(http.StatusNotFound)
	}
	if strings.Contains(path, invalidPathMarker) {
		return statusResponse(http.StatusNotFound)
	}

	filter := ParseFilter(req.QueryParam(servicedef.IDParam))
	switch req.Method {
	case http.MethodGet:
		return t.list(filter)
	case http.MethodPost:
		return t.create(req.Body)
	case http.MethodPatch:
		return t.update(filter, req.Body)
	case http.MethodDelete:
		return t.delete(filter)
	default:
		return statusResponse(http.StatusMethodNotAllowed)
	}
}

func (t *Transformer) list(filter Filter) mockserver.Response {
	return usersResponse(http.StatusOK, t.store.List(filter.Match)...)
}

func (t *Transformer) create(body []byte) mockserver.Response {
	candidate, err := decodeUser(body)
	if err != nil {
		return errorResponse(http.StatusBadRequest, MessageInvalidInteger)
	}
	if verr := Validate(candidate); verr != nil {
		return errorResponse(http.StatusBadRequest, verr.Message)
	}
	created, err := t.store.Create(candidate)
	if errors.Is(err, ErrDuplicateEmail) {
		return errorResponse(http.StatusConflict, MessageDuplicateEmail)
	}
	return usersResponse(http.StatusCreated, created)
}

func (t *Transformer) update(filter Filter, body []byte) mockserver.Response {
	id, ok := filter.SingleID()
	if !ok {
		return statusResponse(http.StatusNotFound)
	}
	if _, exists := t.store.Get(id); !exists {
		return statusResponse(http.StatusNotFound)
	}
	patch, err := decodeUser(body)
	if err != nil {
		return errorResponse(http.StatusBadRequest, MessageInvalidInteger)
	}
	updated, err := t.store.Update(id, patch)
	if errors.Is(err, ErrNotFound) {
		return statusResponse(http.StatusNotFound)
	}
	return usersResponse(http.StatusOK, updated)
}

func (t *Transformer) delete(filter Filter) mockserver.Response {
	switch filter.Kind {
	case FilterIn:
		t.store.Remove(filter.IDs...)
		return statusResponse(http.StatusNoContent)
	case FilterEq:
		t.store.Remove(filter.IDs...)
		return usersResponse(http.StatusOK)
	default:
		return statusResponse(http.StatusNotFound)
	}
}

// decodeUser reads a request body. A body of JSON null counts as malformed.
func decodeUser(body []byte) (User, error) {
	var u *User
	if err := json.Unmarshal(body, &u); err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, errors.New("request body is null")
	}
	return *u, nil
}

func statusOf(resp mockserver.Response) int {
	if resp.Status == 0 {
		return http.StatusOK
	}
	return resp.Status
}
