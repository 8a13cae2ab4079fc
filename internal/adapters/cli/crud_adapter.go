// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/crudgen/internal/ports/primary"
)

// CrudAdapter is a thin adapter that translates CLI operations to CrudService calls.
type CrudAdapter struct {
	service primary.CrudService
	out     io.Writer
}

// NewCrudAdapter creates a new CrudAdapter with the given service.
func NewCrudAdapter(service primary.CrudService, out io.Writer) *CrudAdapter {
	return &CrudAdapter{
		service: service,
		out:     out,
	}
}

var (
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
	pathColor = color.New(color.FgCyan)
)

// MakeCrud generates a CRUD module and prints the manifest. With DryRun set
// the rendered content is printed instead of written.
func (a *CrudAdapter) MakeCrud(ctx context.Context, req primary.MakeCrudRequest) error {
	resp, err := a.service.MakeCrud(ctx, req)
	if resp != nil {
		a.printResponse(resp, req.DryRun)
	}
	if err != nil {
		if resp != nil {
			fmt.Fprintln(a.out, warnColor.Sprint("Generation stopped; the files listed above were written."))
		}
		return err
	}
	return nil
}

// Preview runs a dry run and prints only the plan, without file contents.
// It is used before asking for confirmation.
func (a *CrudAdapter) Preview(ctx context.Context, req primary.MakeCrudRequest) error {
	req.DryRun = true
	resp, err := a.service.MakeCrud(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Generating CRUD for %s\n\n", resp.Model)
	a.printWarnings(resp.Warnings)

	fmt.Fprintln(a.out, "Files to create:")
	for _, e := range resp.Entries {
		if e.Anchor == "" && e.Action != primary.ActionSkipped {
			fmt.Fprintf(a.out, "  %s\n", pathColor.Sprint(e.Path))
		}
	}
	fmt.Fprintln(a.out)

	fmt.Fprintln(a.out, "Files to modify:")
	for _, e := range resp.Entries {
		if e.Anchor != "" && e.Action == primary.ActionPlanned {
			fmt.Fprintf(a.out, "  %s (%s %s '%s')\n", pathColor.Sprint(e.Path), e.Kind, e.Position, e.Anchor)
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// PublishStubs copies the default stubs into the project.
func (a *CrudAdapter) PublishStubs(ctx context.Context, force bool) error {
	published, err := a.service.PublishStubs(ctx, force)
	if err != nil {
		return err
	}

	written := 0
	for _, p := range published {
		if p.Written {
			written++
			fmt.Fprintf(a.out, "%s Published %s\n", okColor.Sprint("✓"), pathColor.Sprint(p.Path))
		} else {
			fmt.Fprintf(a.out, "  Kept %s (use --force to overwrite)\n", p.Path)
		}
	}
	fmt.Fprintf(a.out, "\n%d of %d stubs published\n", written, len(published))
	return nil
}

func (a *CrudAdapter) printResponse(resp *primary.MakeCrudResponse, dryRun bool) {
	fmt.Fprintf(a.out, "Generating CRUD for %s\n\n", resp.Model)
	a.printWarnings(resp.Warnings)

	if dryRun {
		fmt.Fprintln(a.out, "(dry-run mode - no files written)")
		fmt.Fprintln(a.out)
		for _, e := range resp.Entries {
			if e.Action != primary.ActionPlanned {
				continue
			}
			if e.Anchor != "" {
				fmt.Fprintf(a.out, "--- %s (%s '%s') ---\n", e.Path, e.Position, e.Anchor)
			} else {
				fmt.Fprintf(a.out, "--- %s ---\n", e.Path)
			}
			fmt.Fprintln(a.out, e.Content)
			fmt.Fprintln(a.out)
		}
	}

	for _, e := range resp.Entries {
		fmt.Fprintln(a.out, a.describe(e))
	}

	if len(resp.NextSteps) > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Next steps:")
		for i, step := range resp.NextSteps {
			fmt.Fprintf(a.out, "  %d. %s\n", i+1, step)
		}
	}
}

func (a *CrudAdapter) printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	for _, w := range warnings {
		fmt.Fprintf(a.out, "%s %s\n", warnColor.Sprint("Warning:"), w)
	}
	fmt.Fprintln(a.out)
}

func (a *CrudAdapter) describe(e primary.ManifestEntry) string {
	path := pathColor.Sprint(e.Path)
	switch e.Action {
	case primary.ActionCreated:
		return fmt.Sprintf("%s Created %s", okColor.Sprint("✓"), path)
	case primary.ActionOverwritten:
		return fmt.Sprintf("%s Overwrote %s", okColor.Sprint("✓"), path)
	case primary.ActionInserted:
		return fmt.Sprintf("%s Added %s to %s", okColor.Sprint("✓"), e.Kind, path)
	case primary.ActionAlreadyPresent:
		return fmt.Sprintf("  %s already in %s", e.Kind, path)
	case primary.ActionSkipped:
		return fmt.Sprintf("%s Skipped %s", warnColor.Sprint("!"), path)
	case primary.ActionAnchorMissing, primary.ActionFileMissing:
		return fmt.Sprintf("%s Could not add %s to %s", warnColor.Sprint("!"), e.Kind, path)
	case primary.ActionPlanned:
		return fmt.Sprintf("  Would write %s", path)
	default:
		return fmt.Sprintf("  %s %s", e.Action, path)
	}
}
