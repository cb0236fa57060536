package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Guerrilla-Interactive/site-assembler/app/scenario"
)

// buildIndexHTML renders the root shell page at
// <rootDir>/AppSites/roottemplate.html, replacing its <!--OPTIONS-->
// marker with one <option> per scenario discovered under AppSites.
func buildIndexHTML(rootDir string) (string, error) {
	scenarios := scenario.Discover(rootDir)

	var options strings.Builder
	for _, s := range scenarios {
		if s.View == "" {
			fmt.Fprintf(&options, "<option value=\"%s,%s,,%s\">%s - %s</option>\n", s.Site, s.File, s.ViewPrefix, s.Site, s.File)
			continue
		}
		fmt.Fprintf(&options, "<option value=\"%s,%s,%s,%s\">%s - %s (AppView: %s)</option>\n",
			s.Site, s.File, s.View, s.ViewPrefix, s.Site, s.File, s.View)
	}

	rootTemplatePath := filepath.Join(rootDir, "AppSites", "roottemplate.html")
	rootTemplateBytes, err := os.ReadFile(rootTemplatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read root template: %w", err)
	}
	return strings.Replace(string(rootTemplateBytes), "<!--OPTIONS-->", options.String(), 1), nil
}
