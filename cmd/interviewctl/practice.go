package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/interview-ace/internal/bootstrap"
	"alfredoptarigan/interview-ace/internal/config"
	"alfredoptarigan/interview-ace/internal/repositories"
	"alfredoptarigan/interview-ace/internal/services"
)

type practiceOptions struct {
	resumePath    string
	jdPath        string
	difficulty    string
	interviewType string
	userID        string
	archive       bool
}

func newPracticeCmd() *cobra.Command {
	opts := practiceOptions{}

	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Hold a mock interview in the terminal",
		Long: fmt.Sprintf(`Starts an interview seeded from a resume and optional job description.
Answer each question on one line. Type %q (or send EOF) to receive the
feedback report.`, services.EndInterviewCue),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.ValidateModel(); err != nil {
				return err
			}

			parser := services.NewPDFParserService()
			input := services.StartInterviewInput{
				Difficulty:    opts.difficulty,
				InterviewType: opts.interviewType,
			}

			var err error
			if input.ResumeText, err = parser.ExtractTextFromFile(opts.resumePath); err != nil {
				return err
			}
			if opts.jdPath != "" {
				if input.JobDescriptionText, err = parser.ExtractTextFromFile(opts.jdPath); err != nil {
					return err
				}
			}

			gateway, _, err := bootstrap.ModelProvider(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			var interviewRepo repositories.InterviewRepository = repositories.NewMemoryInterviewRepository()
			if opts.archive {
				db, err := config.InitDatabase(cfg)
				if err != nil {
					return err
				}
				interviewRepo = repositories.NewInterviewRepository(db)
			}

			interviewService := services.NewInterviewService(
				services.NewSessionManager(),
				services.NewTurnOrchestrator(gateway, cfg.LLM.Timeout),
				interviewRepo,
				nil,
				services.InterviewOptions{MaxTurns: cfg.Interview.MaxTurns},
			)

			return runPractice(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), interviewService, input, opts.userID)
		},
	}

	cmd.Flags().StringVar(&opts.resumePath, "resume", "", "resume file (.pdf, .txt or .md)")
	cmd.Flags().StringVar(&opts.jdPath, "jd", "", "job description file")
	cmd.Flags().StringVar(&opts.difficulty, "difficulty", services.DefaultDifficulty, "difficulty level")
	cmd.Flags().StringVar(&opts.interviewType, "type", services.DefaultInterviewType, "interview type")
	cmd.Flags().StringVar(&opts.userID, "user", "local", "user id the archived interview belongs to")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "archive the interview in Postgres")
	_ = cmd.MarkFlagRequired("resume")

	return cmd
}

// runPractice runs one interview over in/out until the end cue or EOF, then
// prints the feedback report as indented JSON.
func runPractice(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	interviewService services.InterviewService,
	input services.StartInterviewInput,
	userID string,
) error {
	started := interviewService.StartInterview(ctx, input)
	fmt.Fprintf(out, "Interviewer: %s\n\n", started.Question)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			continue
		}
		if strings.EqualFold(answer, services.EndInterviewCue) {
			break
		}

		reply, err := interviewService.SubmitTurn(ctx, started.Handle, answer)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nInterviewer: %s\n\n", reply.Text)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}

	fmt.Fprintln(out, "\nGenerating feedback report...")
	result, err := interviewService.EndInterview(ctx, started.Handle, func() (string, error) {
		return userID, nil
	})
	if err != nil {
		return err
	}

	report, err := json.MarshalIndent(result.Report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Fprintf(out, "%s\n\nInterview saved as %s\n", report, result.RecordID)
	return nil
}
