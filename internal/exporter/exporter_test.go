package exporter_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/xraysync/internal/config"
	"github.com/fjglira/xraysync/internal/domain"
	"github.com/fjglira/xraysync/internal/exporter"
	"github.com/fjglira/xraysync/internal/grouper"
	"github.com/fjglira/xraysync/internal/parser"
	"github.com/fjglira/xraysync/internal/report"
	"github.com/fjglira/xraysync/internal/scanner"
	"github.com/fjglira/xraysync/internal/testutil"
	"github.com/fjglira/xraysync/internal/xray"
)

type fakeUploader struct {
	calls     []string
	token     string
	authErr   error
	importErr error
	imported  []xray.TestIssue
}

func (f *fakeUploader) Authenticate(ctx context.Context) (string, error) {
	f.calls = append(f.calls, "auth")
	return f.token, f.authErr
}

func (f *fakeUploader) Import(ctx context.Context, token string, issues []xray.TestIssue) (*xray.ImportResponse, error) {
	f.calls = append(f.calls, "import:"+token)
	f.imported = issues
	if f.importErr != nil {
		return nil, f.importErr
	}
	return &xray.ImportResponse{StatusCode: 200, Body: `{"ok":true}`}, nil
}

var _ = Describe("Exporter", func() {
	var (
		cfg      *config.Config
		uploader *fakeUploader
		log      *logrus.Logger
		excelDir string
		jsonDir  string
		ctx      context.Context
	)

	newExporter := func() *exporter.DefaultExporter {
		engine, err := report.NewEngine("", report.DefaultTemplate)
		Expect(err).ToNot(HaveOccurred())
		return exporter.NewExporter(cfg,
			scanner.NewScanner(false),
			parser.NewDefaultRegistry(cfg.Input.Sheet),
			grouper.NewGrouper(cfg.GroupingMode()),
			engine,
			uploader,
			log)
	}

	readJSON := func(path string) []xray.TestIssue {
		f, err := os.Open(path)
		Expect(err).ToNot(HaveOccurred())
		defer f.Close()
		issues, err := xray.Decode(f)
		Expect(err).ToNot(HaveOccurred())
		return issues
	}

	BeforeEach(func() {
		ctx = context.Background()
		root := GinkgoT().TempDir()
		excelDir = filepath.Join(root, "excel")
		jsonDir = filepath.Join(root, "out", "json")
		Expect(os.MkdirAll(excelDir, 0755)).To(Succeed())

		cfg = config.DefaultConfig()
		config.ApplyEnv(cfg, func(key string) string {
			return map[string]string{
				config.EnvClientID:     "id",
				config.EnvClientSecret: "secret",
				config.EnvAuthURL:      "http://auth.invalid",
				config.EnvImportURL:    "http://import.invalid",
				config.EnvExcelDir:     excelDir,
				config.EnvJSONDir:      jsonDir,
			}[key]
		})

		uploader = &fakeUploader{token: "token-123"}
		log = logrus.New()
		log.SetOutput(io.Discard)

		Expect(testutil.WriteXLSX(filepath.Join(excelDir, "HU5.xlsx"), [][]any{
			{"Test ID", "Summary", "Description", "Step", "Data", "Expected"},
			{1, "S1", "D1", "A1", "Dat1", "E1"},
			{1, nil, nil, "A2", "Dat2", "E2"},
			{2, "S2", "D2", "A3", "Dat3", "E3"},
		})).To(Succeed())
	})

	It("should write the grouped tests as JSON", func() {
		res, err := newExporter().Export(ctx, exporter.Request{
			FileName: "HU5.xlsx", ProjectKey: "QA", FeatureNumber: "9",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(res.JSONPath).To(Equal(filepath.Join(jsonDir, "HU5.json")))
		Expect(res.Diagnostics).To(Equal([]domain.Diagnostic{{Row: 1, Reason: domain.ReasonInvalidID}}))
		Expect(res.Tests).To(HaveLen(2))
		Expect(uploader.calls).To(BeEmpty())

		issues := readJSON(res.JSONPath)
		Expect(issues).To(HaveLen(2))
		Expect(issues[0].Fields.Summary).To(Equal("S1"))
		Expect(issues[0].Fields.Project.Key).To(Equal("QA"))
		Expect(issues[0].Steps).To(Equal([]xray.Step{
			{Action: "A1", Data: "Dat1", Result: "E1"},
			{Action: "A2", Data: "Dat2", Result: "E2"},
		}))
		Expect(issues[1].Steps).To(HaveLen(1))
		for _, issue := range issues {
			Expect(issue.RepositoryFolder).To(Equal("Feature-9/HU-5"))
			Expect(issue.TestType).To(Equal("Manual"))
		}
	})

	It("should fail before writing anything when the spreadsheet is missing", func() {
		_, err := newExporter().Export(ctx, exporter.Request{
			FileName: "HU404.xlsx", ProjectKey: "QA", FeatureNumber: "1", Upload: true,
		})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(HavePrefix("[scan]"))
		Expect(uploader.calls).To(BeEmpty())
		Expect(jsonDir).ToNot(BeADirectory())
	})

	It("should reject unsupported extensions", func() {
		Expect(os.WriteFile(filepath.Join(excelDir, "HU1.ods"), []byte("x"), 0644)).To(Succeed())
		_, err := newExporter().Export(ctx, exporter.Request{FileName: "HU1.ods", ProjectKey: "QA", FeatureNumber: "1"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(HavePrefix("[read]"))
	})

	It("should authenticate first and upload after writing", func() {
		res, err := newExporter().Export(ctx, exporter.Request{
			FileName: "HU5.xlsx", ProjectKey: "QA", FeatureNumber: "9", Upload: true,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(uploader.calls).To(Equal([]string{"auth", "import:token-123"}))
		Expect(res.Uploaded).To(BeTrue())
		Expect(res.UploadErr).ToNot(HaveOccurred())
		Expect(res.Response.StatusCode).To(Equal(200))
		Expect(uploader.imported).To(Equal(readJSON(res.JSONPath)))
	})

	It("should abort without artifacts when authentication fails", func() {
		uploader.authErr = domain.NewError("auth", "", 0, "denied", nil)
		_, err := newExporter().Export(ctx, exporter.Request{
			FileName: "HU5.xlsx", ProjectKey: "QA", FeatureNumber: "9", Upload: true,
		})
		Expect(err).To(MatchError(uploader.authErr))
		Expect(uploader.calls).To(Equal([]string{"auth"}))
		Expect(filepath.Join(jsonDir, "HU5.json")).ToNot(BeAnExistingFile())
	})

	It("should keep the JSON and report the error when the upload fails", func() {
		uploader.importErr = errors.New("HTTP 500")
		res, err := newExporter().Export(ctx, exporter.Request{
			FileName: "HU5.xlsx", ProjectKey: "QA", FeatureNumber: "9", Upload: true,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Uploaded).To(BeFalse())
		Expect(res.UploadErr).To(MatchError("HTTP 500"))
		Expect(res.JSONPath).To(BeAnExistingFile())
	})

	It("should write nothing and upload nothing on a dry run", func() {
		cfg.DryRun = true
		res, err := newExporter().Export(ctx, exporter.Request{
			FileName: "HU5.xlsx", ProjectKey: "QA", FeatureNumber: "9", Upload: true, Report: true,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Tests).To(HaveLen(2))
		Expect(res.Uploaded).To(BeFalse())
		Expect(uploader.calls).To(BeEmpty())
		Expect(jsonDir).ToNot(BeADirectory())
	})

	It("should write an HTML report next to the JSON", func() {
		res, err := newExporter().Export(ctx, exporter.Request{
			FileName: "HU5.xlsx", ProjectKey: "QA", FeatureNumber: "9", Report: true,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(res.ReportPath).To(Equal(filepath.Join(jsonDir, "HU5.html")))
		content, err := os.ReadFile(res.ReportPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("Feature-9/HU-5"))
		Expect(string(content)).To(ContainSubstring("row 1: invalid Test ID"))
	})

	It("should assign folders across sequence resets and honor by-id grouping", func() {
		Expect(testutil.WriteXLSX(filepath.Join(excelDir, "HU123_456.xlsx"), [][]any{
			{1, "Login", "", "A1", "", "E1"},
			{2, "Search", "", "A2", "", "E2"},
			{1, "Profile", "", "A3", "", "E3"},
		})).To(Succeed())

		res, err := newExporter().Export(ctx, exporter.Request{FileName: "HU123_456.xlsx", ProjectKey: "QA", FeatureNumber: "7"})
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Resets).To(Equal(1))
		issues := readJSON(res.JSONPath)
		Expect(issues).To(HaveLen(3))
		Expect(issues[2].RepositoryFolder).To(Equal("Feature-7/HU-456"))

		cfg.Grouping.Mode = string(domain.GroupByID)
		res, err = newExporter().Export(ctx, exporter.Request{FileName: "HU123_456.xlsx", ProjectKey: "QA", FeatureNumber: "7"})
		Expect(err).ToNot(HaveOccurred())
		issues = readJSON(res.JSONPath)
		Expect(issues).To(HaveLen(2))
		Expect(issues[0].RepositoryFolder).To(Equal("Feature-7/HU-123"))
		Expect(issues[0].Steps).To(HaveLen(2))
	})

	It("should read CSV exports", func() {
		content := "1,S1,D1,A1,Dat1,E1\n2,S2,D2,A2,Dat2,E2\n"
		Expect(os.WriteFile(filepath.Join(excelDir, "HU8.csv"), []byte(content), 0644)).To(Succeed())

		res, err := newExporter().Export(ctx, exporter.Request{FileName: "HU8.csv", ProjectKey: "QA", FeatureNumber: "2"})
		Expect(err).ToNot(HaveOccurred())
		Expect(res.JSONPath).To(Equal(filepath.Join(jsonDir, "HU8.json")))
		Expect(readJSON(res.JSONPath)).To(HaveLen(2))
	})

	It("should write an empty list for a sheet without valid rows", func() {
		Expect(testutil.WriteXLSX(filepath.Join(excelDir, "HU0.xlsx"), [][]any{
			{"Test ID", "Summary", "Description", "Step", "Data", "Expected"},
		})).To(Succeed())

		res, err := newExporter().Export(ctx, exporter.Request{FileName: "HU0.xlsx", ProjectKey: "QA", FeatureNumber: "1"})
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Tests).To(BeEmpty())
		content, err := os.ReadFile(res.JSONPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal("[]\n"))
	})
})
