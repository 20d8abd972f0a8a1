package portfolio

import (
	"context"
	"net/url"

	"github.com/appadook/full-stack-portfolio/internal/errors"
)

// API is the transport the repositories talk through; *gateway.Client
// satisfies it.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string) error
}

// Repo is the CRUD facade for one entity kind. Every call is a single REST
// request; failures come back unchanged. Callers validate before writing.
type Repo[T Entity] interface {
	ListAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id ID) (*T, error)
	Create(ctx context.Context, data T) (*T, error)
	Update(ctx context.Context, id ID, data T) (*T, error)
	Delete(ctx context.Context, id ID) error
}

// Repository implements Repo over the backend's URL layout:
//
//	GET    /api/<kind>s/
//	GET    /api/<kind>s/{id}/
//	POST   /api/<kind>s/create/
//	PUT    /api/<kind>s/update/{id}/
//	DELETE /api/<kind>s/delete/{id}/
type Repository[T Entity] struct {
	api  API
	kind Kind
}

var (
	_ Repo[Experience] = (*Repository[Experience])(nil)
	_ Repo[Project]    = (*Repository[Project])(nil)
)

func NewExperienceRepo(api API) *Repository[Experience] {
	return &Repository[Experience]{api: api, kind: KindExperience}
}

func NewProjectRepo(api API) *Repository[Project] {
	return &Repository[Project]{api: api, kind: KindProject}
}

func (r *Repository[T]) Kind() Kind {
	return r.kind
}

func (r *Repository[T]) ListAll(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	if err := r.api.Get(ctx, r.path(""), &items); err != nil {
		return nil, errors.Wrapf(err, "listing %s", r.kind.Collection())
	}
	return items, nil
}

func (r *Repository[T]) GetByID(ctx context.Context, id ID) (*T, error) {
	if id.IsNew() {
		return nil, errors.ErrMissingID
	}
	var item T
	if err := r.api.Get(ctx, r.path("", id), &item); err != nil {
		return nil, errors.Wrapf(err, "getting %s %s", r.kind, id)
	}
	return &item, nil
}

func (r *Repository[T]) Create(ctx context.Context, data T) (*T, error) {
	var created T
	if err := r.api.Post(ctx, r.path("create"), data, &created); err != nil {
		return nil, errors.Wrapf(err, "creating %s", r.kind)
	}
	return &created, nil
}

func (r *Repository[T]) Update(ctx context.Context, id ID, data T) (*T, error) {
	if id.IsNew() {
		return nil, errors.ErrMissingID
	}
	var updated T
	if err := r.api.Put(ctx, r.path("update", id), data, &updated); err != nil {
		return nil, errors.Wrapf(err, "updating %s %s", r.kind, id)
	}
	return &updated, nil
}

func (r *Repository[T]) Delete(ctx context.Context, id ID) error {
	if id.IsNew() {
		return errors.ErrMissingID
	}
	if err := r.api.Delete(ctx, r.path("delete", id)); err != nil {
		return errors.Wrapf(err, "deleting %s %s", r.kind, id)
	}
	return nil
}

func (r *Repository[T]) path(action string, id ...ID) string {
	p := "/api/" + r.kind.Collection() + "/"
	if action != "" {
		p += action + "/"
	}
	for _, v := range id {
		p += url.PathEscape(string(v)) + "/"
	}
	return p
}
