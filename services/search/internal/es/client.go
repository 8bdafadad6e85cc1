package es

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"
)

type Options struct {
	URL      string
	Username string
	Password string
}

// NewClient connects and pings the cluster so a bad address fails at
// startup instead of on the first query.
func NewClient(o Options) (*elasticsearch.Client, error) {
	slog.Info("connecting to elasticsearch", "url", o.URL)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{o.URL},
		Username:  o.Username,
		Password:  o.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}

	slog.Info("connected to elasticsearch")
	return client, nil
}
