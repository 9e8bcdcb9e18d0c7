package fga_test

import (
	"context"
	"fmt"

	"github.com/kbukum/fgakit/fga"
	"github.com/kbukum/fgakit/fgatest"
	"github.com/kbukum/fgakit/httpclient"
	"github.com/kbukum/fgakit/logger"
)

func Example() {
	ctx := context.Background()
	fake := fgatest.New()
	if err := fake.Start(ctx); err != nil {
		panic(err)
	}
	defer fake.Stop(ctx)

	cfg := fga.Config{BaseURL: fake.URL(), StoreID: "01HSTORE", AuthorizationModelID: "01HMODEL"}
	cfg.ApplyDefaults()
	transport, err := httpclient.New(cfg.HTTPConfig())
	if err != nil {
		panic(err)
	}
	client, err := fga.New(cfg, transport, fga.WithLogger(logger.Nop()))
	if err != nil {
		panic(err)
	}

	if _, err := client.Grant(ctx, "widget-service", "catalog_entity_delete", "user:alice"); err != nil {
		panic(err)
	}
	resp, err := client.Check(ctx, "widget-service", "Delete", "user:alice")
	if err != nil {
		panic(err)
	}
	fmt.Println(resp.Allowed, client.LastCheckResult().Allowed == resp.Allowed)

	_, err = client.Grant(ctx, "widget-service", "catalog_entity_delete", "user:alice")
	fmt.Println(err != nil)
	// Output:
	// true true
	// true
}
