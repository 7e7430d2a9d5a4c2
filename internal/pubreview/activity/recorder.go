package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Declaration is attached to operations that leave an activity behind.
type Declaration struct {
	Kind model.ActivityKind
	Type model.SubjectType
	// Visibility overrides the requester's role as the record's floor.
	Visibility model.Role
}

type Store interface {
	CreateActivity(ctx context.Context, activity *model.Activity) error
	CommitActivity(ctx context.Context, id primitive.ObjectID, commit repository.ActivityCommit) error
	DeleteActivity(ctx context.Context, id primitive.ObjectID) error
}

type State int

const (
	Unopened State = iota
	Provisional
	Committed
	Discarded
)

func (s State) String() string {
	switch s {
	case Provisional:
		return "provisional"
	case Committed:
		return "committed"
	case Discarded:
		return "discarded"
	default:
		return "unopened"
	}
}

const persistTimeout = 5 * time.Second

// Recorder opens activity records for requests. It is safe for concurrent
// use; each request gets its own Record.
type Recorder struct {
	store        Store
	transformers map[model.SubjectType]Transformer
	logger       *slog.Logger
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, transformers: DefaultTransformers(), logger: logger}
}

// WithTransformers returns a copy of r using the given dispatch table.
func (r *Recorder) WithTransformers(t map[model.SubjectType]Transformer) *Recorder {
	return &Recorder{store: r.store, transformers: t, logger: r.logger}
}

// Open returns the Record for one request. A nil declaration yields a record
// that is not valid and must not be begun.
func (r *Recorder) Open(decl *Declaration) *Record {
	return &Record{recorder: r, decl: decl}
}

// Record follows one auditable action from Unopened through Provisional to
// either Committed or Discarded.
type Record struct {
	recorder  *Recorder
	decl      *Declaration
	state     State
	id        primitive.ObjectID
	requester *model.User
}

// IsValid reports whether the operation declared an activity.
func (rec *Record) IsValid() bool { return rec.decl != nil }

func (rec *Record) State() State { return rec.state }

// ID is zero until Begin has persisted the record.
func (rec *Record) ID() primitive.ObjectID { return rec.id }

// Opened reports whether the record is Provisional and awaits Save or Discard.
func (rec *Record) Opened() bool { return rec.state == Provisional }

// Begin persists a provisional record. A nil requester leaves the record
// Unopened. Persistence failures are logged and leave it Unopened too; the
// operation itself carries on.
func (rec *Record) Begin(ctx context.Context, requester *model.User) {
	if rec.decl == nil {
		panic("activity: Begin on an operation without an activity declaration")
	}
	if rec.state != Unopened {
		panic(fmt.Sprintf("activity: Begin in state %s", rec.state))
	}
	if requester == nil {
		return
	}

	visibility := rec.decl.Visibility
	if visibility == "" {
		visibility = requester.Role
	}
	activity := &model.Activity{
		ID:         primitive.NewObjectID(),
		Kind:       rec.decl.Kind,
		Type:       rec.decl.Type,
		Owner:      requester.ID,
		Visibility: visibility,
	}

	ctx, cancel := detached(ctx)
	defer cancel()

	if err := rec.recorder.store.CreateActivity(ctx, activity); err != nil {
		rec.recorder.logger.Warn("failed to open activity",
			"kind", rec.decl.Kind, "type", rec.decl.Type, "error", err)
		return
	}
	rec.id = activity.ID
	rec.requester = requester
	rec.state = Provisional
}

// Save commits the record with metadata derived from the handler's response.
// request is the validated body and permission the resolved permission data.
// A transform failure discards the record instead.
func (rec *Record) Save(ctx context.Context, request, permission, response any) {
	rec.mustBeProvisional("Save")
	logger := rec.recorder.logger.With("activity_id", rec.id.Hex(), "kind", rec.decl.Kind, "type", rec.decl.Type)

	ctx, cancel := detached(ctx)
	defer cancel()

	outcome, err := rec.transform(request, permission, response)
	if err != nil {
		logger.Warn("activity transform failed, discarding", "error", err)
		rec.remove(ctx, logger)
		return
	}

	commit := repository.ActivityCommit{
		Live:     outcome.Live,
		Metadata: outcome.Metadata,
		Document: outcome.Document,
	}
	if err := rec.recorder.store.CommitActivity(ctx, rec.id, commit); err != nil {
		logger.Warn("failed to commit activity, discarding", "error", err)
		rec.remove(ctx, logger)
		return
	}
	rec.state = Committed
}

// Discard deletes the provisional record.
func (rec *Record) Discard(ctx context.Context) {
	rec.mustBeProvisional("Discard")
	logger := rec.recorder.logger.With("activity_id", rec.id.Hex(), "kind", rec.decl.Kind, "type", rec.decl.Type)

	ctx, cancel := detached(ctx)
	defer cancel()
	rec.remove(ctx, logger)
}

func (rec *Record) remove(ctx context.Context, logger *slog.Logger) {
	if err := rec.recorder.store.DeleteActivity(ctx, rec.id); err != nil {
		logger.Warn("failed to discard activity", "error", err)
	}
	rec.state = Discarded
}

func (rec *Record) transform(request, permission, response any) (out Outcome, err error) {
	fn, ok := rec.recorder.transformers[rec.decl.Type]
	if !ok {
		return Outcome{}, fmt.Errorf("no transformer for %q", rec.decl.Type)
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("transformer panicked: %v", p)
		}
	}()
	return fn(Event{
		Requester:  rec.requester,
		Kind:       rec.decl.Kind,
		Request:    request,
		Permission: permission,
		Response:   response,
	})
}

func (rec *Record) mustBeProvisional(op string) {
	if rec.state != Provisional {
		panic(fmt.Sprintf("activity: %s in state %s", op, rec.state))
	}
}

// detached keeps activity writes alive when the request context is cancelled
// so a provisional record can still be settled.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
}
