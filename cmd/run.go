package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/talentdesk/exec-connect/internal/ai"
	"github.com/talentdesk/exec-connect/internal/ai/gemini"
	"github.com/talentdesk/exec-connect/internal/logger"
	"github.com/talentdesk/exec-connect/internal/matching"
	"github.com/talentdesk/exec-connect/internal/registry"
	"github.com/talentdesk/exec-connect/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptMatchClient    = "Find candidates for a client"
	PromptMatchCandidate = "Find opportunities for a candidate"
	PromptReport         = "Match report for a pair"
	PromptUrgent         = "List urgent clients"
	PromptSave           = "Save stores to files"
	PromptExit           = "Exit"
	PromptBack           = "back"
	PromptYes            = "Yes"
	PromptNo             = "No"

	defaultCandidatesFile = "candidates.json"
	defaultClientsFile    = "clients.json"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptMatchClient, PromptMatchCandidate, PromptReport, PromptUrgent, PromptSave, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the exec-connect interactive matching session",
}

func init() {
	runCmd.Run = func(cmd *cobra.Command, _ []string) {
		run(cmd)
	}

	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Float64P("min-score", "m", 0, "minimum match score for ranking results")
	runCmd.Flags().IntP("limit", "l", 0, "maximum number of ranking results. 0 means unlimited")

	viper.BindPFlag("match.min-score", runCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("match.limit", runCmd.Flags().Lookup("limit"))
}

// run is the main command for the cli.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		config = &Config{}
	}

	logger.Info("starting exec-connect", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	candidates, clients, err := loadStores(config, logger)
	if err != nil {
		logger.Fatal("loading stores", zap.Error(err))
	}

	if err := seedStores(config, candidates, clients, logger); err != nil {
		logger.Fatal("seeding stores", zap.Error(err))
	}

	logger.Info("stores ready",
		zap.Int("candidates", candidates.Len()),
		zap.Int("clients", clients.Len()),
	)

	matcher := matching.New(candidates, clients, logger)

	composer, err := prepareComposer(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("outreach composer unavailable", zap.Error(err))
	}

	session := &session{
		ctx:        ctx,
		logger:     logger,
		config:     config,
		candidates: candidates,
		clients:    clients,
		matcher:    matcher,
		composer:   composer,
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := session.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Error("action failed", zap.Error(err))
		}
	}
}

// session bundles everything one interactive run works with.
type session struct {
	ctx        context.Context
	logger     *zap.Logger
	config     *Config
	candidates *registry.CandidateStore
	clients    *registry.ClientStore
	matcher    *matching.Matcher
	composer   ai.Composer
}

func (s *session) handleAction(action string) error {
	switch action {
	case PromptMatchClient:
		return s.matchCandidates()
	case PromptMatchCandidate:
		return s.matchClients()
	case PromptReport:
		return s.report()
	case PromptUrgent:
		return s.listUrgent()
	case PromptSave:
		return s.save()
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *session) matchCandidates() error {
	client, err := s.selectClient()
	if err != nil || client == nil {
		return err
	}

	minScore, limit := s.rankingParams()
	matches := s.matcher.CandidatesForClient(client, minScore, limit)
	if len(matches) == 0 {
		s.logger.Info("no candidates cleared the threshold",
			zap.String("company", client.CompanyName),
			zap.Float64("min_score", minScore),
		)
		return nil
	}

	rows := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, map[string]any{
			"id":           m.Candidate.ID,
			"name":         m.Candidate.Name,
			"score":        m.Score,
			"availability": m.Candidate.Availability,
			"experience":   m.Candidate.YearsExperience,
		})
	}

	pretty, _ := json.MarshalIndent(rows, "", "  ")
	s.logger.Info(string(pretty), zap.Int("count", len(matches)), zap.String("company", client.CompanyName))
	return nil
}

func (s *session) matchClients() error {
	candidate, err := s.selectCandidate()
	if err != nil || candidate == nil {
		return err
	}

	minScore, limit := s.rankingParams()
	matches := s.matcher.ClientsForCandidate(candidate, minScore, limit)
	if len(matches) == 0 {
		s.logger.Info("no clients cleared the threshold",
			zap.String("candidate", candidate.Name),
			zap.Float64("min_score", minScore),
		)
		return nil
	}

	rows := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, map[string]any{
			"id":       m.Client.ID,
			"company":  m.Client.CompanyName,
			"score":    m.Score,
			"position": m.Client.PositionType,
			"location": m.Client.Location,
			"urgent":   m.Client.Urgent,
		})
	}

	pretty, _ := json.MarshalIndent(rows, "", "  ")
	s.logger.Info(string(pretty), zap.Int("count", len(matches)), zap.String("candidate", candidate.Name))
	return nil
}

func (s *session) report() error {
	candidate, err := s.selectCandidate()
	if err != nil || candidate == nil {
		return err
	}

	client, err := s.selectClient()
	if err != nil || client == nil {
		return err
	}

	report := s.matcher.Report(candidate, client)
	pretty, _ := json.MarshalIndent(report, "", "  ")
	s.logger.Info(string(pretty),
		zap.Float64("overall_score", report.OverallScore),
		zap.String("recommendation", report.Recommendation),
	)

	if s.composer == nil {
		return nil
	}

	outreachPrompt := promptui.Select{
		Label: "Draft an outreach message for this pair?",
		Items: []string{PromptYes, PromptNo},
	}
	_, answer, err := outreachPrompt.Run()
	if err != nil || answer != PromptYes {
		return err
	}

	outreach, err := s.composer.Compose(s.ctx, candidate, client, report)
	if err != nil {
		return fmt.Errorf("composing outreach: %w", err)
	}

	s.logger.Info("outreach draft",
		zap.String("subject", outreach.Subject),
		zap.String("message", outreach.Message),
	)
	return nil
}

func (s *session) listUrgent() error {
	urgent := s.clients.SearchUrgent()
	if len(urgent) == 0 {
		s.logger.Info("no urgent clients")
		return nil
	}

	for _, c := range urgent {
		s.logger.Info("urgent client",
			zap.String("id", c.ID),
			zap.String("company", c.CompanyName),
			zap.String("location", c.Location),
			zap.String("position", string(c.PositionType)),
		)
	}
	return nil
}

func (s *session) save() error {
	candidatesFile, clientsFile := storeFiles(s.config)

	if err := s.candidates.SaveToFile(candidatesFile); err != nil {
		return err
	}
	if err := s.clients.SaveToFile(clientsFile); err != nil {
		return err
	}

	s.logger.Info("stores saved",
		zap.String("candidates_file", candidatesFile),
		zap.String("clients_file", clientsFile),
	)
	return nil
}

func (s *session) rankingParams() (float64, int) {
	return rankingParams(runCmd.Flags(), s.config.Match)
}

// rankingParams merges the command flags with the config defaults. A
// flag the user set explicitly wins even when its value is zero.
func rankingParams(flags *pflag.FlagSet, match *MatchConfig) (float64, int) {
	minScore, _ := flags.GetFloat64("min-score")
	limit, _ := flags.GetInt("limit")

	if match == nil {
		return minScore, limit
	}

	if !flags.Changed("min-score") && match.MinScore > 0 {
		minScore = match.MinScore
	}
	if !flags.Changed("limit") && match.Limit > 0 {
		limit = match.Limit
	}

	return minScore, limit
}

func (s *session) selectClient() (*registry.Client, error) {
	all := s.clients.All()
	if len(all) == 0 {
		s.logger.Info("no clients in the store")
		return nil, nil
	}

	items := make([]string, 0, len(all))
	for _, c := range all {
		items = append(items, fmt.Sprintf("%s %s / %s / %s", c.ID, c.CompanyName, c.Type, c.Location))
	}

	clientPrompt := promptui.Select{
		Label: "Choose a client and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := clientPrompt.Run()
	if err != nil {
		return nil, err
	}
	if selected == PromptBack {
		return nil, nil
	}

	id := strings.Split(selected, " ")[0]
	client, err := s.clients.Get(id)
	if err != nil {
		return nil, fmt.Errorf("there is no such client id %s", id)
	}
	return client, nil
}

func (s *session) selectCandidate() (*registry.Candidate, error) {
	all := s.candidates.All()
	if len(all) == 0 {
		s.logger.Info("no candidates in the store")
		return nil, nil
	}

	items := make([]string, 0, len(all))
	for _, c := range all {
		items = append(items, fmt.Sprintf("%s %s / %.1f years / %s", c.ID, c.Name, c.YearsExperience, c.Availability))
	}

	candidatePrompt := promptui.Select{
		Label: "Choose a candidate and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := candidatePrompt.Run()
	if err != nil {
		return nil, err
	}
	if selected == PromptBack {
		return nil, nil
	}

	id := strings.Split(selected, " ")[0]
	candidate, err := s.candidates.Get(id)
	if err != nil {
		return nil, fmt.Errorf("there is no such candidate id %s", id)
	}
	return candidate, nil
}

func storeFiles(config *Config) (string, string) {
	candidatesFile := defaultCandidatesFile
	clientsFile := defaultClientsFile
	if config != nil {
		if config.CandidatesFile != "" {
			candidatesFile = config.CandidatesFile
		}
		if config.ClientsFile != "" {
			clientsFile = config.ClientsFile
		}
	}
	return candidatesFile, clientsFile
}

// loadStores builds both stores from the configured files. A missing
// file is not an error; the store simply starts empty.
func loadStores(config *Config, logger *zap.Logger) (*registry.CandidateStore, *registry.ClientStore, error) {
	candidatesFile, clientsFile := storeFiles(config)

	candidates := registry.NewCandidateStore()
	if _, err := os.Stat(candidatesFile); err == nil {
		if err := candidates.LoadFromFile(candidatesFile); err != nil {
			return nil, nil, err
		}
		logger.Info("loaded candidate store", zap.String("file", candidatesFile), zap.Int("count", candidates.Len()))
	}

	clients := registry.NewClientStore()
	if _, err := os.Stat(clientsFile); err == nil {
		if err := clients.LoadFromFile(clientsFile); err != nil {
			return nil, nil, err
		}
		logger.Info("loaded client store", zap.String("file", clientsFile), zap.Int("count", clients.Len()))
	}

	return candidates, clients, nil
}

// seedStores inserts records listed in the config into stores that came
// up empty. Seed entries use the persisted JSON field names.
func seedStores(config *Config, candidates *registry.CandidateStore, clients *registry.ClientStore, logger *zap.Logger) error {
	if config == nil || config.Seed == nil {
		return nil
	}

	if candidates.Len() == 0 && len(config.Seed.Candidates) > 0 {
		var records []*registry.Candidate
		if err := decodeSeed(config.Seed.Candidates, &records); err != nil {
			return fmt.Errorf("decoding seed candidates: %w", err)
		}
		for _, record := range records {
			if _, err := candidates.Add(record); err != nil {
				return fmt.Errorf("seeding candidate %q: %w", record.Name, err)
			}
		}
		logger.Info("seeded candidate store", zap.Int("count", len(records)))
	}

	if clients.Len() == 0 && len(config.Seed.Clients) > 0 {
		var records []*registry.Client
		if err := decodeSeed(config.Seed.Clients, &records); err != nil {
			return fmt.Errorf("decoding seed clients: %w", err)
		}
		for _, record := range records {
			if _, err := clients.Add(record); err != nil {
				return fmt.Errorf("seeding client %q: %w", record.CompanyName, err)
			}
		}
		logger.Info("seeded client store", zap.Int("count", len(records)))
	}

	return nil
}

// decodeSeed maps raw config entries onto records using the json field
// names, the same decoder setup the stores' documents use.
func decodeSeed(raw []map[string]any, target any) error {
	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   target,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// prepareComposer builds the optional AI outreach composer. A disabled
// or missing AI config yields a nil composer and no error.
func prepareComposer(ctx context.Context, config *AIConfig, zlog *zap.Logger) (ai.Composer, error) {
	if config == nil || !config.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	if config.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	keyFile := strings.TrimSpace(config.Gemini.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model)
	if err != nil {
		return nil, err
	}

	composerLogger := logger.WithFields(zlog, logger.ComposerFields("gemini", generator.Model())...)

	return gemini.NewComposer(generator, composerLogger, config.Gemini.MaxRetries, config.Gemini.MaxLogLength), nil
}
