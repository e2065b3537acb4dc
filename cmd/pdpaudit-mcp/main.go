// pdpaudit-mcp exposes the audit API as MCP tools over stdio, so an agent can
// trigger launch-readiness audits and read back the findings.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// auditRequest mirrors the audit API request model.
type auditRequest struct {
	URL        string   `json:"url"`
	Regions    []string `json:"regions,omitempty"`
	Profile    string   `json:"profile,omitempty"`
	SkipReport bool     `json:"skip_report,omitempty"`
}

// auditResponse mirrors the audit API response model.
type auditResponse struct {
	Success bool `json:"success"`
	Results []struct {
		Region      string `json:"region"`
		RegionLabel string `json:"region_label"`
		Bundle      *struct {
			RunID     string `json:"run_id"`
			OutputDir string `json:"output_dir"`
		} `json:"bundle"`
		Analysis *struct {
			Summary  string `json:"summary"`
			Findings []struct {
				Category           string `json:"category"`
				Severity           string `json:"severity"`
				Owner              string `json:"owner"`
				Issue              string `json:"issue"`
				WhyItMatters       string `json:"why_it_matters"`
				Recommendation     string `json:"recommendation"`
				EvidenceScreenshot string `json:"evidence_screenshot"`
			} `json:"findings"`
		} `json:"analysis"`
		ReportPath string `json:"report_path"`
		Error      *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"results"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("PDPA_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("PDPA_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "PDPA_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"pdpaudit",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	auditTool := mcp.NewTool("audit_page",
		mcp.WithDescription("Audit a product detail page for launch readiness in one or more target markets. Captures evidence screenshots with a headless browser, analyses localization and compliance signals, and returns findings plus a PDF report path."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The product page URL to audit"),
		),
		mcp.WithArray("regions",
			mcp.Description("Region codes to audit against, e.g. [\"UK\", \"DE\", \"CA_FR\"]. Defaults to UK."),
		),
		mcp.WithString("profile",
			mcp.Description("Evidence profile: 'sizefit' (default; full page, care, size & fit, size chart) or 'details' (full page, details, care, size chart)"),
			mcp.Enum("details", "sizefit"),
		),
		mcp.WithBoolean("skip_report",
			mcp.Description("Skip PDF generation and return findings only"),
		),
	)
	s.AddTool(auditTool, handleAuditPage(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleAuditPage(apiURL, apiKey string) server.ToolHandlerFunc {
	// Audit runs hold a browser page for up to 5 minutes per region.
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := auditRequest{
			URL:        url,
			Profile:    request.GetString("profile", ""),
			SkipReport: request.GetBool("skip_report", false),
		}
		if regions := request.GetStringSlice("regions", nil); len(regions) > 0 {
			reqBody.Regions = regions
		}

		body, err := json.Marshal(reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/audit", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("X-API-Key", apiKey)

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var auditResp auditResponse
		if err := json.Unmarshal(respBody, &auditResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if auditResp.Error != nil {
			return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", auditResp.Error.Code, auditResp.Error.Message)), nil
		}

		return mcp.NewToolResultText(formatResults(&auditResp)), nil
	}
}

// formatResults renders the audit outcome as readable text for the agent.
func formatResults(resp *auditResponse) string {
	var sb strings.Builder

	for _, r := range resp.Results {
		label := r.Region
		if r.RegionLabel != "" {
			label = fmt.Sprintf("%s (%s)", r.RegionLabel, r.Region)
		}

		if r.Error != nil {
			sb.WriteString(fmt.Sprintf("=== %s: FAILED [%s] %s ===\n\n", label, r.Error.Code, r.Error.Message))
			continue
		}

		sb.WriteString(fmt.Sprintf("=== %s ===\n", label))
		if r.Analysis != nil {
			sb.WriteString(fmt.Sprintf("Summary: %s\n\n", r.Analysis.Summary))
			for i, f := range r.Analysis.Findings {
				sb.WriteString(fmt.Sprintf("%d. [%s/%s] %s (owner: %s)\n", i+1, f.Category, f.Severity, f.Issue, f.Owner))
				if f.WhyItMatters != "" {
					sb.WriteString(fmt.Sprintf("   Why: %s\n", f.WhyItMatters))
				}
				if f.Recommendation != "" {
					sb.WriteString(fmt.Sprintf("   Fix: %s\n", f.Recommendation))
				}
				if f.EvidenceScreenshot != "" {
					sb.WriteString(fmt.Sprintf("   Evidence: %s\n", f.EvidenceScreenshot))
				}
			}
		} else {
			sb.WriteString("Capture completed; analysis not run.\n")
		}
		if r.ReportPath != "" {
			sb.WriteString(fmt.Sprintf("\nReport: %s\n", r.ReportPath))
		}
		if r.Bundle != nil {
			sb.WriteString(fmt.Sprintf("Evidence: %s (run %s)\n", r.Bundle.OutputDir, r.Bundle.RunID))
		}
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String())
}
