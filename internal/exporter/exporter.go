package exporter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/xraysync/internal/config"
	"github.com/fjglira/xraysync/internal/domain"
	"github.com/fjglira/xraysync/internal/grouper"
	"github.com/fjglira/xraysync/internal/parser"
	"github.com/fjglira/xraysync/internal/report"
	"github.com/fjglira/xraysync/internal/scanner"
	"github.com/fjglira/xraysync/internal/xray"
)

// Uploader is the part of the Xray client the exporter needs.
type Uploader interface {
	Authenticate(ctx context.Context) (string, error)
	Import(ctx context.Context, token string, issues []xray.TestIssue) (*xray.ImportResponse, error)
}

// Request describes one spreadsheet conversion.
type Request struct {
	FileName      string // relative to PATH_EXCEL
	ProjectKey    string
	FeatureNumber string
	Upload        bool
	Report        bool
}

// Result is what a conversion produced.
type Result struct {
	Tests       []domain.Test
	Diagnostics []domain.Diagnostic
	Resets      int
	JSONPath    string
	ReportPath  string
	Uploaded    bool
	Response    *xray.ImportResponse
	UploadErr   error
}

// Exporter is the top-level orchestrator.
type Exporter interface {
	Export(ctx context.Context, req Request) (*Result, error)
}

// DefaultExporter implements Exporter by wiring all components together.
type DefaultExporter struct {
	cfg      *config.Config
	scanner  scanner.Scanner
	registry parser.ReaderRegistry
	rows     *parser.RowParser
	grouper  grouper.Grouper
	engine   report.Engine
	uploader Uploader
	log      *logrus.Logger
}

// NewExporter creates a new DefaultExporter with all dependencies. engine
// may be nil when reports are never requested.
func NewExporter(
	cfg *config.Config,
	s scanner.Scanner,
	r parser.ReaderRegistry,
	g grouper.Grouper,
	e report.Engine,
	u Uploader,
	log *logrus.Logger,
) *DefaultExporter {
	return &DefaultExporter{
		cfg:      cfg,
		scanner:  s,
		registry: r,
		rows:     parser.NewRowParser(),
		grouper:  g,
		engine:   e,
		uploader: u,
		log:      log,
	}
}

// Export runs the full pipeline: resolve → authenticate → read → parse →
// group → write → report → upload. Authentication happens before anything
// is written so a bad token leaves no artifacts behind. Upload failures are
// recorded on the Result and do not fail the export.
func (x *DefaultExporter) Export(ctx context.Context, req Request) (*Result, error) {
	// Step 1: Locate the spreadsheet
	path, err := x.scanner.Resolve(x.cfg.Env.ExcelDir, req.FileName)
	if err != nil {
		return nil, err
	}

	// Step 2: Authenticate early
	var token string
	if req.Upload && x.cfg.DryRun {
		x.log.Infof("[DRY-RUN] Would request a token from %s", x.cfg.Env.AuthURL)
	} else if req.Upload {
		x.log.Debug("Requesting Xray token")
		token, err = x.uploader.Authenticate(ctx)
		if err != nil {
			return nil, err
		}
		x.log.Infof("Token obtained: %s...", tokenPrefix(token))
	}

	// Step 3: Read and parse rows
	x.log.Infof("Reading spreadsheet: %s", path)
	sr, err := x.registry.ReaderFor(filepath.Ext(path))
	if err != nil {
		return nil, domain.NewError("read", path, 0, err.Error(), nil)
	}
	raw, err := sr.Read(path)
	if err != nil {
		return nil, err
	}

	parsed := x.rows.Parse(raw)
	for _, d := range parsed.Diagnostics {
		x.log.WithFields(logrus.Fields{"row": d.Row, "reason": d.Reason}).Warnf("Row %d skipped: %s", d.Row, d.Reason)
	}

	// Step 4: Group and finalize
	fc := domain.NewFeatureContext(req.FeatureNumber, req.FileName)
	grouped := x.grouper.Group(parsed.Rows, fc)
	tests := grouper.Finalize(grouped.Tests, req.ProjectKey)
	x.log.Infof("Grouped %d row(s) into %d test(s) across %d block(s)",
		len(parsed.Rows), len(tests), grouped.Resets+1)

	res := &Result{
		Tests:       tests,
		Diagnostics: parsed.Diagnostics,
		Resets:      grouped.Resets,
	}

	issues := xray.FromTests(tests, x.cfg.Output.TestType)
	payload, err := xray.Marshal(issues)
	if err != nil {
		return nil, domain.NewError("write", req.FileName, 0, "failed to encode payload", err)
	}

	// Step 5: Write the JSON artifact
	base := strings.TrimSuffix(filepath.Base(req.FileName), filepath.Ext(req.FileName))
	res.JSONPath = filepath.Join(x.cfg.Env.JSONDir, base+".json")
	if req.Report {
		res.ReportPath = filepath.Join(x.cfg.Env.JSONDir, base+".html")
	}

	if x.cfg.DryRun {
		x.log.Infof("[DRY-RUN] Would write: %s", res.JSONPath)
		x.log.Debugf("[DRY-RUN] Content:\n%s", payload)
	} else {
		if err := os.MkdirAll(x.cfg.Env.JSONDir, 0755); err != nil {
			return nil, domain.NewErrorWithSuggestion("write", x.cfg.Env.JSONDir, 0,
				"failed to create output directory",
				"check that PATH_JSON points to a writable location",
				err)
		}
		if err := os.WriteFile(res.JSONPath, payload, 0644); err != nil {
			return nil, domain.NewErrorWithSuggestion("write", res.JSONPath, 0,
				"failed to write JSON file",
				"check disk space and write permissions for PATH_JSON",
				err)
		}
		x.log.Infof("JSON file saved: %s", res.JSONPath)
	}

	// Step 6: Summary report
	if req.Report {
		if err := x.writeReport(res, req); err != nil {
			return nil, err
		}
	}

	// Step 7: Upload
	if req.Upload {
		if x.cfg.DryRun {
			x.log.Infof("[DRY-RUN] Would upload %d test(s) to %s", len(issues), x.cfg.Env.ImportURL)
			return res, nil
		}
		x.log.Info("Sending tests to Xray")
		resp, err := x.uploader.Import(ctx, token, issues)
		if err != nil {
			res.UploadErr = err
			x.log.WithError(err).Error("Upload to Xray failed")
			return res, nil
		}
		res.Uploaded = true
		res.Response = resp
		x.log.Info("Upload to Xray succeeded")
		if resp.Body != "" {
			x.log.Debugf("Xray response: %s", resp.Body)
		}
	}

	return res, nil
}

func (x *DefaultExporter) writeReport(res *Result, req Request) error {
	if x.engine == nil {
		return domain.NewError("report", res.ReportPath, 0, "no report engine configured", nil)
	}
	page, err := x.engine.HTML(report.Data{
		Title:         filepath.Base(req.FileName),
		ProjectKey:    req.ProjectKey,
		FeatureNumber: req.FeatureNumber,
		Grouping:      x.cfg.GroupingMode(),
		Tests:         res.Tests,
		Diagnostics:   res.Diagnostics,
	})
	if err != nil {
		return err
	}
	if x.cfg.DryRun {
		x.log.Infof("[DRY-RUN] Would write: %s", res.ReportPath)
		return nil
	}
	if err := os.WriteFile(res.ReportPath, bytes.TrimSpace(page), 0644); err != nil {
		return domain.NewError("report", res.ReportPath, 0, "failed to write report", err)
	}
	x.log.Infof("Report saved: %s", res.ReportPath)
	return nil
}

func tokenPrefix(token string) string {
	if len(token) > 5 {
		return token[:5]
	}
	return token
}
