package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/userapi"
	"github.com/goliatone/go-formflow/pkg/validate"
)

// usersBackend is a minimal in-memory users API for driving the full flow.
type usersBackend struct {
	users []userapi.User
}

func (b *usersBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			email := r.URL.Query().Get("email")
			matches := []userapi.User{}
			for _, user := range b.users {
				if email == "" || user.Email == email {
					matches = append(matches, user)
				}
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(matches)
		case http.MethodPost:
			var user userapi.User
			if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			user.ID = "u1"
			b.users = append(b.users, user)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(user)
		default:
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func newTestProfile(t *testing.T, backend *usersBackend, options ...Option) *Profile {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	p, err := New(context.Background(), append([]Option{WithBaseURL(server.URL)}, options...)...)
	if err != nil {
		t.Fatalf("failed to build profile: %v", err)
	}
	t.Cleanup(p.Close)
	return p
}

func fillValid(t *testing.T, p *Profile) {
	t.Helper()
	ctx := context.Background()
	values := map[string]string{
		FieldFirstName:        "Adalbert",
		FieldLastName:         "Lovelace",
		FieldEmail:            "ada@example.com",
		FieldBirthDate:        "1990-06-15",
		FieldFramework:        "react",
		FieldFrameworkVersion: "2.1.2",
	}
	for name, value := range values {
		if err := p.Form.SetValue(ctx, name, value); err != nil {
			t.Fatalf("failed to set %s: %v", name, err)
		}
	}
	if err := p.Form.Wait(ctx); err != nil {
		t.Fatalf("failed to wait for async checks: %v", err)
	}
}

func TestDefinition_BuildsProfileFields(t *testing.T) {
	def, err := Definition(context.Background())
	if err != nil {
		t.Fatalf("failed to build definition: %v", err)
	}

	if def.OperationID != OperationID {
		t.Fatalf("unexpected operation id %q", def.OperationID)
	}
	if def.Endpoint != "/users" || def.Method != "POST" {
		t.Fatalf("unexpected endpoint %s %s", def.Method, def.Endpoint)
	}

	for _, name := range FieldOrder {
		if _, ok := def.FieldByName(name); !ok {
			t.Fatalf("missing field %q", name)
		}
	}

	first, _ := def.FieldByName(FieldFirstName)
	if !first.Required {
		t.Fatal("expected firstName to be required")
	}
	hasBound := func(kind, value string) bool {
		for _, rule := range first.Validations {
			if rule.Kind == kind && rule.Params["value"] == value {
				return true
			}
		}
		return false
	}
	if !hasBound(definition.ValidationRuleMinLength, "4") {
		t.Fatalf("expected minLength 4 on firstName, got %v", first.Validations)
	}
	if !hasBound(definition.ValidationRuleMaxLength, "20") {
		t.Fatalf("expected maxLength 20 on firstName, got %v", first.Validations)
	}

	hobbies, _ := def.FieldByName(FieldHobbies)
	if !hobbies.IsList() {
		t.Fatal("expected hobbies to be a list field")
	}
	if hobbies.Items == nil {
		t.Fatal("expected hobby items metadata")
	}
	itemBound := func(kind, value string) bool {
		for _, rule := range hobbies.Items.Validations {
			if rule.Kind == kind && rule.Params["value"] == value {
				return true
			}
		}
		return false
	}
	if !itemBound(definition.ValidationRuleMinLength, "4") || !itemBound(definition.ValidationRuleMaxLength, "20") {
		t.Fatalf("expected 4..20 bounds on hobby items, got %v", hobbies.Items.Validations)
	}
}

func TestProfile_SubmitLifecycle(t *testing.T) {
	backend := &usersBackend{}

	var fire func()
	p := newTestProfile(t, backend, WithFlowOptions(
		flow.WithAfterFunc(func(_ time.Duration, fn func()) func() bool {
			fire = fn
			return func() bool { return true }
		}),
	))

	fillValid(t, p)
	if !p.Form.Valid() {
		t.Fatalf("expected a valid form, got %+v", p.Form.Fields())
	}

	if err := p.Flow.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !p.Flow.ShowingSuccess() {
		t.Fatalf("expected success state, got %s", p.Flow.State())
	}
	if len(backend.users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(backend.users))
	}
	if backend.users[0].Email != "ada@example.com" {
		t.Fatalf("unexpected stored user: %+v", backend.users[0])
	}

	if fire == nil {
		t.Fatal("expected the reset timer to be scheduled")
	}
	fire()

	if p.Flow.State() != flow.StateEditing {
		t.Fatalf("expected editing after reset, got %s", p.Flow.State())
	}
	if st, _ := p.Form.Field(FieldFirstName); st.Value != "" {
		t.Fatalf("expected reset form, got %q", st.Value)
	}
}

func TestProfile_EmailTaken(t *testing.T) {
	backend := &usersBackend{users: []userapi.User{{ID: "u0", Email: "taken@example.com"}}}
	p := newTestProfile(t, backend)

	ctx := context.Background()
	if err := p.Form.SetValue(ctx, FieldEmail, "taken@example.com"); err != nil {
		t.Fatalf("failed to set email: %v", err)
	}
	if err := p.Form.Wait(ctx); err != nil {
		t.Fatalf("failed to wait: %v", err)
	}

	st, _ := p.Form.Field(FieldEmail)
	if !st.Has(validate.TagEmailTaken) {
		t.Fatalf("expected emailTaken violation, got %+v", st.Violations)
	}

	// A new value supersedes the stale result.
	if err := p.Form.SetValue(ctx, FieldEmail, "fresh@example.com"); err != nil {
		t.Fatalf("failed to set email: %v", err)
	}
	if err := p.Form.Wait(ctx); err != nil {
		t.Fatalf("failed to wait: %v", err)
	}
	st, _ = p.Form.Field(FieldEmail)
	if st.Has(validate.TagEmailTaken) {
		t.Fatalf("expected emailTaken to clear, got %+v", st.Violations)
	}
}

func TestProfile_SubmitInvalidForm(t *testing.T) {
	backend := &usersBackend{}
	p := newTestProfile(t, backend)

	err := p.Flow.Submit(context.Background())
	if !errors.Is(err, flow.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if p.Flow.State() != flow.StateEditing {
		t.Fatalf("expected editing state, got %s", p.Flow.State())
	}
	if len(backend.users) != 0 {
		t.Fatalf("expected no stored users, got %d", len(backend.users))
	}
}

func TestProfile_VersionMustBelongToFramework(t *testing.T) {
	backend := &usersBackend{}
	p := newTestProfile(t, backend)

	fillValid(t, p)
	ctx := context.Background()
	if err := p.Form.SetValue(ctx, FieldFrameworkVersion, "9.9.9"); err != nil {
		t.Fatalf("failed to set version: %v", err)
	}
	if err := p.Form.Wait(ctx); err != nil {
		t.Fatalf("failed to wait: %v", err)
	}

	if err := p.Flow.Submit(ctx); err == nil {
		t.Fatal("expected submit to reject a foreign version")
	}
	if p.Flow.State() != flow.StateEditing {
		t.Fatalf("expected editing state after failure, got %s", p.Flow.State())
	}
}

func TestProfile_HobbyLengthBounds(t *testing.T) {
	backend := &usersBackend{}
	p := newTestProfile(t, backend)

	fillValid(t, p)
	if !p.Form.Valid() {
		t.Fatalf("expected a valid form before adding hobbies, got %+v", p.Form.Fields())
	}

	index, err := p.Form.Append(FieldHobbies)
	if err != nil {
		t.Fatalf("failed to append hobby: %v", err)
	}

	if err := p.Form.SetItem(FieldHobbies, index, "go"); err != nil {
		t.Fatalf("failed to set hobby: %v", err)
	}
	st, _ := p.Form.Field(FieldHobbies)
	if !st.Items[index].Has(validate.TagMinLength) {
		t.Fatalf("expected minlength on a 2-char hobby, got %+v", st.Items[index].Violations)
	}
	if got := st.Items[index].Violations[0].Params["value"]; got != "4" {
		t.Fatalf("expected minlength bound 4, got %q", got)
	}
	if p.Form.Valid() {
		t.Fatal("expected a too-short hobby to block the form")
	}

	if err := p.Form.SetItem(FieldHobbies, index, "competitive marathon running"); err != nil {
		t.Fatalf("failed to set hobby: %v", err)
	}
	st, _ = p.Form.Field(FieldHobbies)
	if !st.Items[index].Has(validate.TagMaxLength) {
		t.Fatalf("expected maxlength on a long hobby, got %+v", st.Items[index].Violations)
	}

	if err := p.Form.SetItem(FieldHobbies, index, "chess"); err != nil {
		t.Fatalf("failed to set hobby: %v", err)
	}
	st, _ = p.Form.Field(FieldHobbies)
	if !st.Items[index].Valid() {
		t.Fatalf("expected a 5-char hobby to be valid, got %+v", st.Items[index].Violations)
	}
	if !p.Form.Valid() {
		t.Fatalf("expected the form to settle valid again, got %+v", p.Form.Fields())
	}
}

func TestProfile_HobbyOrderPreserved(t *testing.T) {
	backend := &usersBackend{}
	p := newTestProfile(t, backend)

	for _, hobby := range []string{"chess", "hiking", "baking"} {
		index, err := p.Form.Append(FieldHobbies)
		if err != nil {
			t.Fatalf("failed to append hobby: %v", err)
		}
		if err := p.Form.SetItem(FieldHobbies, index, hobby); err != nil {
			t.Fatalf("failed to set hobby: %v", err)
		}
	}
	if err := p.Form.RemoveAt(FieldHobbies, 1); err != nil {
		t.Fatalf("failed to remove hobby: %v", err)
	}

	values := p.Form.Values()
	hobbies, _ := values[FieldHobbies].([]string)
	if len(hobbies) != 2 || hobbies[0] != "chess" || hobbies[1] != "baking" {
		t.Fatalf("unexpected hobbies after removal: %v", hobbies)
	}

	user := UserFromValues(values)
	if len(user.Hobbies) != 2 || user.Hobbies[1] != "baking" {
		t.Fatalf("unexpected user hobbies: %v", user.Hobbies)
	}
}
