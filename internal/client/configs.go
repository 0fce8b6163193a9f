package client

import (
	"context"
	"net/http"
	"net/url"

	"movecalc/internal/model"
	"movecalc/internal/store"
)

// The server decides the owner from the bearer token, so the owner
// argument of the store methods is not sent.
var _ store.Store = (*Client)(nil)

func (c *Client) List(ctx context.Context, _ string) ([]store.Summary, error) {
	var out struct {
		Configs []store.Summary `json:"configs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/configs", nil, &out); err != nil {
		return nil, err
	}
	return out.Configs, nil
}

func (c *Client) Save(ctx context.Context, _ string, name string, payload model.Inputs) (string, error) {
	if _, err := store.CleanName(name); err != nil {
		return "", err
	}
	body := struct {
		Name   string       `json:"name"`
		Inputs model.Inputs `json:"inputs"`
	}{Name: name, Inputs: payload}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/configs", body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) Get(ctx context.Context, _ string, id string) (model.Inputs, error) {
	var out struct {
		Inputs model.Inputs `json:"inputs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/configs/"+url.PathEscape(id), nil, &out); err != nil {
		return model.Inputs{}, err
	}
	return out.Inputs, nil
}

// Delete removes a configuration. Callers confirm before calling; the
// confirmation flag is always sent.
func (c *Client) Delete(ctx context.Context, _ string, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/configs/"+url.PathEscape(id)+"?confirm=true", nil, nil)
}
