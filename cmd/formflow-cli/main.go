package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goliatone/go-formflow/pkg/catalog"
	"github.com/goliatone/go-formflow/pkg/profile"
	"github.com/goliatone/go-formflow/pkg/prompt"
)

func main() {
	backend := flag.String("backend", "http://localhost:8080/api", "users API base URL")
	catalogPath := flag.String("catalog", "", "framework catalog YAML (embedded catalog if empty)")
	debounce := flag.Duration("debounce", 300*time.Millisecond, "delay before the email uniqueness check fires")
	flag.Parse()

	ctx := context.Background()

	options := []profile.Option{
		profile.WithBaseURL(*backend),
		profile.WithDebounce(*debounce),
	}
	if *catalogPath != "" {
		cat, err := loadCatalog(*catalogPath)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		options = append(options, profile.WithCatalog(cat))
	}

	p, err := profile.New(ctx, options...)
	if err != nil {
		log.Fatalf("Failed to build profile form: %v", err)
	}
	defer p.Close()

	session, err := prompt.New(p.Definition, p.Form, p.Flow,
		prompt.WithSelectSource(profile.FieldFramework, func(map[string]any) []string {
			return p.Catalog.Frameworks()
		}),
		prompt.WithSelectSource(profile.FieldFrameworkVersion, func(values map[string]any) []string {
			framework, _ := values[profile.FieldFramework].(string)
			return p.Catalog.Versions(framework)
		}),
	)
	if err != nil {
		log.Fatalf("Failed to build session: %v", err)
	}

	if err := session.Run(ctx); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			fmt.Println("Aborted.")
			return
		}
		log.Fatalf("Submission failed: %v", err)
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return catalog.Load(file)
}
