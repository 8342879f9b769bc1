package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glbter/distributed-systems/advisor/entities"
)

var assessCmd = &cobra.Command{
	Use:     "assess question=option...",
	Short:   "Score questionnaire answers and print the risk category and allocation",
	Example: "advisor assess q1=up_to_10 q2=hold q3=balanced_funds q4=moderate_growth q5=5_10y",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, err := parseAnswers(args)
		if err != nil {
			return err
		}

		e, err := newEngine()
		if err != nil {
			return err
		}

		a, err := e.Assess(answers)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), a)
	},
}

func parseAnswers(args []string) (entities.QuestionnaireAnswers, error) {
	answers := entities.QuestionnaireAnswers{}
	for _, arg := range args {
		q, o, ok := strings.Cut(arg, "=")
		if !ok || q == "" || o == "" {
			return nil, entities.KindError(entities.KindInvalidInput, fmt.Sprintf("bad answer %q, want question=option", arg))
		}
		answers[q] = o
	}
	return answers, nil
}
