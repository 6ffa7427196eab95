package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cryptocast/internal/distribution/youtube"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	envFile          = ".env"
	configFile       = "config.yaml"
	youtubeTokenPath = "./youtube_token.json"
)

// credential is one platform secret the wizard asks for. secretKey is its
// key under `secrets:` in config.yaml.
type credential struct {
	env       string
	secretKey string
	title     string
	hidden    bool
}

var platformCredentials = []credential{
	{env: "TWITTER_BEARER_TOKEN", secretKey: "twitter_token", title: "Twitter bearer token", hidden: true},
	{env: "INSTAGRAM_ACCESS_TOKEN", secretKey: "instagram_token", title: "Instagram access token", hidden: true},
	{env: "INSTAGRAM_ACCOUNT_ID", secretKey: "instagram_account_id", title: "Instagram business account ID"},
	{env: "SCHEDULER_API_TOKEN", secretKey: "scheduler_token", title: "Scheduler API token", hidden: true},
	{env: "GROQ_API_KEY", secretKey: "groq_api_key", title: "GROQ API key (captions and narration)", hidden: true},
}

// setupResult collects what ends up in .env and config.yaml.
type setupResult struct {
	env     map[string]string
	secrets map[string]string
	social  map[string]any
	gcs     map[string]any
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Long: `Create the asset directories, collect platform credentials and optionally
store them in Secret Manager, set up a GCS bucket for rendered videos and
authorize YouTube uploads.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("📈 Cryptocast Setup"))

	if err := createDirectories(); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if ok, err := confirmOverwrite(envFile); err != nil || !ok {
		return err
	}

	res := &setupResult{
		env:     make(map[string]string),
		secrets: make(map[string]string),
		social:  make(map[string]any),
		gcs:     make(map[string]any),
	}

	if err := collectCredentials(res); err != nil {
		return fmt.Errorf("collect credentials: %w", err)
	}

	if commandExists("gcloud") {
		if err := configureCloud(cmd.Context(), res); err != nil {
			return fmt.Errorf("configure google cloud: %w", err)
		}
	} else {
		fmt.Println(infoStyle.Render("gcloud not found, skipping Secret Manager, GCS and YouTube setup"))
	}

	if err := writeEnvFile(res.env); err != nil {
		return err
	}
	if err := writeConfigFile(res); err != nil {
		return err
	}

	printNextSteps()
	return nil
}

func createDirectories() error {
	for _, dir := range []string{"assets/backgrounds", "output"} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	fmt.Println(successStyle.Render("✓ Created directories"))
	return nil
}

func confirmOverwrite(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return true, nil
	}
	var overwrite bool
	if err := huh.NewConfirm().
		Title("Found existing " + path).
		Description("Overwrite?").
		Value(&overwrite).
		Run(); err != nil {
		return false, err
	}
	if !overwrite {
		fmt.Println(infoStyle.Render("Kept existing " + path))
	}
	return overwrite, nil
}

func collectCredentials(res *setupResult) error {
	values := make([]string, len(platformCredentials))
	fields := make([]huh.Field, 0, len(platformCredentials))
	for i, c := range platformCredentials {
		input := huh.NewInput().Title(c.title).Value(&values[i])
		if c.hidden {
			input = input.EchoMode(huh.EchoModePassword)
		}
		fields = append(fields, input)
	}

	fmt.Println(infoStyle.Render("Leave a field empty to use the mock credential."))
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}

	live := false
	for i, c := range platformCredentials {
		if v := strings.TrimSpace(values[i]); v != "" {
			res.env[c.env] = v
			live = live || c.env != "GROQ_API_KEY"
		}
	}
	if live {
		res.social["mode"] = "live"
	}
	return nil
}

func configureCloud(ctx context.Context, res *setupResult) error {
	project := activeProject()
	if err := huh.NewInput().
		Title("Google Cloud project").
		Description("Leave empty to keep everything local").
		Value(&project).
		Run(); err != nil {
		return err
	}
	project = strings.TrimSpace(project)
	if project == "" {
		return nil
	}
	res.env["GOOGLE_CLOUD_PROJECT"] = project

	if err := runWithSpinner("Enabling Secret Manager, Storage and YouTube APIs", func() error {
		return runGcloud(nil, "services", "enable",
			"secretmanager.googleapis.com",
			"storage.googleapis.com",
			"youtube.googleapis.com",
			"--project", project)
	}); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("API enablement failed: %v", err)))
	}

	steps := []func(context.Context, string, *setupResult) error{
		storeSecrets,
		setupBucket,
		setupYouTubeOAuth,
	}
	for _, step := range steps {
		if err := step(ctx, project, res); err != nil {
			fmt.Println(warnStyle.Render(err.Error()))
		}
	}
	return nil
}

// storeSecrets moves the collected credentials from .env into Secret
// Manager, one secret per credential.
func storeSecrets(_ context.Context, project string, res *setupResult) error {
	var pending []credential
	for _, c := range platformCredentials {
		if res.env[c.env] != "" {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	var store bool
	if err := huh.NewConfirm().
		Title(fmt.Sprintf("Store %d credential(s) in Secret Manager?", len(pending))).
		Description("They are read at startup instead of from .env").
		Value(&store).
		Run(); err != nil || !store {
		return err
	}

	for _, c := range pending {
		name := "cryptocast-" + strings.ReplaceAll(c.secretKey, "_", "-")
		err := runWithSpinner("Storing "+name, func() error {
			return runGcloud(strings.NewReader(res.env[c.env]),
				"secrets", "create", name, "--data-file=-", "--project", project)
		})
		if err != nil {
			return fmt.Errorf("secret %s skipped: %w", name, err)
		}
		res.secrets[c.secretKey] = name
		delete(res.env, c.env)
	}
	return nil
}

func setupBucket(_ context.Context, project string, res *setupResult) error {
	var bucket string
	if err := huh.NewInput().
		Title("GCS bucket for rendered videos").
		Description("Created when missing. Leave empty to keep videos on local disk").
		Value(&bucket).
		Run(); err != nil {
		return err
	}

	bucket = strings.TrimPrefix(strings.TrimSpace(bucket), "gs://")
	if bucket == "" {
		return nil
	}

	if runGcloud(nil, "storage", "buckets", "describe", "gs://"+bucket, "--project", project) != nil {
		if err := runWithSpinner("Creating bucket "+bucket, func() error {
			return runGcloud(nil, "storage", "buckets", "create", "gs://"+bucket, "--project", project)
		}); err != nil {
			return fmt.Errorf("bucket skipped: %w", err)
		}
	}

	res.env["GCS_BUCKET"] = bucket
	res.gcs["enabled"] = true
	return nil
}

func setupYouTubeOAuth(ctx context.Context, _ string, res *setupResult) error {
	fmt.Println(infoStyle.Render(`
YouTube uploads need an OAuth client ("Desktop app") from
https://console.cloud.google.com/apis/credentials. Leave empty to simulate YouTube.`))

	var clientID, clientSecret string
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("YouTube Client ID").Value(&clientID),
			huh.NewInput().Title("YouTube Client Secret").EchoMode(huh.EchoModePassword).Value(&clientSecret),
		),
	).Run(); err != nil {
		return err
	}

	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return nil
	}
	res.env["YOUTUBE_CLIENT_ID"] = clientID
	res.env["YOUTUBE_CLIENT_SECRET"] = clientSecret

	if err := runYouTubeAuth(ctx, youtube.NewAuth(clientID, clientSecret, youtubeTokenPath)); err != nil {
		return fmt.Errorf("YouTube OAuth failed, retry with `cryptocast auth youtube`: %w", err)
	}
	return nil
}

func writeEnvFile(env map[string]string) error {
	keys := []string{"GOOGLE_CLOUD_PROJECT", "GCS_BUCKET", "YOUTUBE_CLIENT_ID", "YOUTUBE_CLIENT_SECRET"}
	for _, c := range platformCredentials {
		keys = append(keys, c.env)
	}

	var buf bytes.Buffer
	for _, key := range keys {
		if v := env[key]; v != "" {
			_, _ = fmt.Fprintf(&buf, "%s=%s\n", key, v)
		}
	}

	if err := os.WriteFile(envFile, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write %s: %w", envFile, err)
	}
	fmt.Println(successStyle.Render("✓ Wrote " + envFile))
	return nil
}

// writeConfigFile writes the settings the wizard chose into config.yaml.
// An existing file is left alone and the snippet is printed instead.
func writeConfigFile(res *setupResult) error {
	doc := map[string]any{}
	if len(res.social) > 0 {
		doc["social"] = res.social
	}
	if len(res.gcs) > 0 {
		doc["gcs"] = res.gcs
	}
	if len(res.secrets) > 0 {
		doc["secrets"] = res.secrets
	}
	if len(doc) == 0 {
		return nil
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		fmt.Println(infoStyle.Render("Add to " + configFile + ":\n\n" + string(data)))
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", configFile, err)
	}
	fmt.Println(successStyle.Render("✓ Wrote " + configFile))
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Add background images to: assets/backgrounds/")
	fmt.Println("  2. Check credentials: cryptocast auth status")
	fmt.Println("  3. Run: cryptocast compose")
}

func activeProject() string {
	out, err := exec.Command("gcloud", "config", "get-value", "project").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runGcloud(stdin io.Reader, args ...string) error {
	cmd := exec.Command("gcloud", args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
