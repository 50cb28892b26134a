package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIdentityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Identity management commands",
	}

	cmd.AddCommand(newIdentityClaimCmd())
	cmd.AddCommand(newIdentityReleaseCmd())
	cmd.AddCommand(newIdentityHeartbeatCmd())
	cmd.AddCommand(newIdentityListCmd())

	return cmd
}

func newIdentityClaimCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim a player identity for this client",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := cfg.EnsureToken()
			if err != nil {
				return fmt.Errorf("failed to prepare session token: %w", err)
			}
			client.SetToken(token)

			req := map[string]string{
				"name":          name,
				"session_token": token,
			}
			var result ClaimResult

			if err := client.Post("/api/v1/identities/claim", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveIdentityID(result.IdentityID); err != nil {
				return fmt.Errorf("failed to save identity id: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Identity name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newIdentityReleaseCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Release the claimed identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				id = cfg.LoadIdentityID()
			}
			if id == "" {
				return fmt.Errorf("no claimed identity; use --id or run 'roomctl identity claim'")
			}

			req := map[string]string{"session_token": cfg.Token}
			if err := client.Post("/api/v1/identities/"+id+"/release", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Identity released")
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Identity id (defaults to the saved claim)")

	return cmd
}

func newIdentityHeartbeatCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "heartbeat",
		Short: "Refresh the claimed identity's liveness",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				id = cfg.LoadIdentityID()
			}
			if id == "" {
				return fmt.Errorf("no claimed identity; use --id or run 'roomctl identity claim'")
			}

			req := map[string]string{"session_token": cfg.Token}
			if err := client.Post("/api/v1/identities/"+id+"/heartbeat", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Heartbeat sent")
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Identity id (defaults to the saved claim)")

	return cmd
}

func newIdentityListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known identities",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Identity

			if err := client.Get("/api/v1/identities", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
