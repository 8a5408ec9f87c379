package cli

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// detectContentType resolves the MIME type from the file extension, falling
// back to content sniffing.
func detectContentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

// Submit uploads a proof-of-usage file: "submit <campaign-id> <file>".
func (a *App) Submit(ctx context.Context, args []string) error {
	campaignID, path := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)

	if err := a.coord.SubmitProof(ctx, campaignID, name, detectContentType(name, data), data); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Proof submitted; campaign is awaiting review.")
	return nil
}

// Proof downloads a campaign's proof file: "proof <campaign-id> <output-file>".
func (a *App) Proof(ctx context.Context, args []string) error {
	campaignID, path := args[0], args[1]

	file, err := a.coord.DownloadProof(ctx, campaignID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, file.Data, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d bytes (%s) to %s\n", len(file.Data), file.ContentType, path)
	return nil
}

// DelProof removes the caller's proof file: "delproof <campaign-id>".
func (a *App) DelProof(ctx context.Context, args []string) error {
	if err := a.coord.DeleteProof(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Proof deleted.")
	return nil
}
