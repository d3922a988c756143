package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/magie/internal/presentation/tui"
	"github.com/aretw0/magie/pkg/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long:  `Starts the assistant in interactive console mode. Type 'sair' to end the conversation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		assistant, _, err := buildAssistant(cmd)
		if err != nil {
			return err
		}

		console := tui.NewConsole(assistant.AssistantName(), assistant.UserName())

		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner()

			renderMarkdown := tui.NewRenderer()
			welcome := "Posso te ajudar a **consultar saldos**, **transferir dinheiro** e **mostrar transações recentes**.\nTransferências só acontecem depois da sua confirmação."
			if rendered, err := renderMarkdown(welcome); err == nil {
				fmt.Print(rendered)
			}
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		console.Assistant(fmt.Sprintf("Olá %s, como posso te ajudar hoje? (Digite 'sair' para encerrar)", assistant.UserName()))

		reader := bufio.NewReader(os.Stdin)
		for {
			console.Prompt()

			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Println()
				console.Assistant(fmt.Sprintf("Até logo, %s!", assistant.UserName()))
				return nil
			}
			utterance := strings.TrimSpace(line)
			if utterance == "" {
				continue
			}

			result, err := assistant.ProcessTurn(ctx, utterance)
			if err != nil {
				console.Error(err.Error())
				continue
			}

			render(console, result)

			if !result.Continue {
				return nil
			}
			if ctx.Err() != nil {
				console.Assistant(fmt.Sprintf("Até logo, %s!", assistant.UserName()))
				return nil
			}
		}
	},
}

func render(console *tui.Console, result *domain.TurnResult) {
	if result.Message == "" {
		return
	}
	switch result.Kind {
	case domain.KindError:
		console.Error(result.Message)
	case domain.KindWarning:
		console.Warning(result.Message)
	case domain.KindSuccess:
		console.Success(result.Message)
	default:
		console.Assistant(result.Message)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
