package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ohap/internal/config"
	"ohap/internal/domain"
	"ohap/internal/gateway"
	"ohap/internal/server"
	"ohap/internal/workflow"
)

var rootCmd = &cobra.Command{
	Use:   "ohap",
	Short: "OHAP CLI",
	Long: `ohap drives human-agent task collaboration over a gateway.
Core concepts:
- Task: a unit of work an initiator publishes for proposals (draft -> open -> offered -> contracted -> in-progress -> delivered -> reviewed -> closed, cancelled exits).
- Proposal: an offer to execute a task under stated terms; accepting one forms a contract.
- Contract: the binding terms between initiator and partner (active -> completed/cancelled/disputed).
- Deliverable: the submitted artifacts plus evidence fulfilling a contract.
- Review: the immutable assessment of a deliverable; its decision settles the deliverable.
Run 'ohap serve' for a local in-memory gateway, 'ohap demo' for a scripted end-to-end run.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("OHAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("gateway", "", "gateway base URL (overrides config)")
	rootCmd.PersistentFlags().String("api-key", "", "gateway API key (overrides config)")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier")
	rootCmd.PersistentFlags().String("actor-type", "human", "actor type (human|agent|system|broker)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("gateway", rootCmd.PersistentFlags().Lookup("gateway"))
	_ = viper.BindPFlag("api-key", rootCmd.PersistentFlags().Lookup("api-key"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
	_ = viper.BindPFlag("actor-type", rootCmd.PersistentFlags().Lookup("actor-type"))
}

func registerCommands() {
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(proposalCmd())
	rootCmd.AddCommand(contractCmd())
	rootCmd.AddCommand(deliverableCmd())
	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(demoCmd())
}

// --- task ---

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "task", Short: "Manage tasks"}
	cmd.AddCommand(taskCreateCmd())
	cmd.AddCommand(taskGetCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskSubmitCmd())
	cmd.AddCommand(taskStartCmd())
	cmd.AddCommand(taskCancelCmd())
	cmd.AddCommand(taskCloseCmd())
	cmd.AddCommand(taskProposalsCmd())
	return cmd
}

func taskCreateCmd() *cobra.Command {
	var title, objective, domainTag, file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				var candidate domain.Task
				if file != "" {
					data, err := os.ReadFile(file)
					if err != nil {
						return err
					}
					if err := json.Unmarshal(data, &candidate); err != nil {
						return err
					}
				} else {
					candidate = domain.Task{
						Title:     title,
						Objective: objective,
						Initiator: localActor(),
					}
					if domainTag != "" {
						candidate.Metadata = &domain.TaskMetadata{Domain: domainTag}
					}
				}
				t, err := c.CreateTask(ctx, candidate)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&objective, "objective", "", "task objective")
	cmd.Flags().StringVar(&domainTag, "domain", "", "metadata domain tag")
	cmd.Flags().StringVar(&file, "file", "", "read full task JSON from file")
	return cmd
}

func taskGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				t, err := c.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
}

func taskListCmd() *cobra.Command {
	var status, initiator, domainTag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				filters := map[string]string{}
				if status != "" {
					filters["status"] = status
				}
				if initiator != "" {
					filters["initiator_id"] = initiator
				}
				if domainTag != "" {
					filters["domain"] = domainTag
				}
				tasks, err := c.ListTasks(ctx, filters)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Initiator"})
				for _, t := range tasks {
					tw.AppendRow(table.Row{t.ID, t.Title, t.Status, t.Initiator.ID})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	cmd.Flags().StringVar(&initiator, "initiator", "", "initiator id filter")
	cmd.Flags().StringVar(&domainTag, "domain", "", "metadata domain filter")
	return cmd
}

func taskSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <id>",
		Short: "Open a draft task for proposals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				t, err := c.SubmitTask(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
}

func taskStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Move a contracted task into in-progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				t, err := c.StartWork(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
}

func taskCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				t, err := c.CancelTask(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
}

func taskCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <id>",
		Short: "Close a reviewed task and settle its contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				t, contract, err := c.CloseTask(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"task": t, "contract": contract})
			})
		},
	}
}

func taskProposalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "proposals <id>",
		Short: "List proposals for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				items, err := c.TaskProposals(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Proposer", "Status", "Estimated Completion"})
				for _, p := range items {
					tw.AppendRow(table.Row{p.ID, p.Proposer.ID, p.Status, p.Timeline.EstimatedCompletion})
				}
				tw.Render()
				return nil
			})
		},
	}
}

// --- proposal ---

func proposalCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "proposal", Short: "Manage proposals"}
	cmd.AddCommand(proposalSubmitCmd())
	cmd.AddCommand(proposalGetCmd())
	cmd.AddCommand(proposalAcceptCmd())
	cmd.AddCommand(proposalRejectCmd())
	cmd.AddCommand(proposalWithdrawCmd())
	cmd.AddCommand(proposalListCmd())
	return cmd
}

func proposalListCmd() *cobra.Command {
	var taskID, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List proposals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				filters := map[string]string{}
				if taskID != "" {
					filters["task_id"] = taskID
				}
				if status != "" {
					filters["status"] = status
				}
				items, err := c.ListProposals(ctx, filters)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Task", "Proposer", "Status"})
				for _, p := range items {
					tw.AppendRow(table.Row{p.ID, p.TaskID, p.Proposer.ID, p.Status})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "task id filter")
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	return cmd
}

func proposalSubmitCmd() *cobra.Command {
	var taskID, approach, completion, file string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a proposal for an open task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				var candidate domain.Proposal
				if file != "" {
					data, err := os.ReadFile(file)
					if err != nil {
						return err
					}
					if err := json.Unmarshal(data, &candidate); err != nil {
						return err
					}
				} else {
					candidate = domain.Proposal{
						TaskID:   taskID,
						Proposer: domain.Proposer{Actor: localActor()},
						Approach: approach,
						Timeline: domain.ProposalTimeline{EstimatedCompletion: completion},
					}
				}
				p, err := c.SubmitProposal(ctx, candidate)
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "task id")
	cmd.Flags().StringVar(&approach, "approach", "", "proposed approach")
	cmd.Flags().StringVar(&completion, "estimated-completion", "", "estimated completion (ISO-8601)")
	cmd.Flags().StringVar(&file, "file", "", "read full proposal JSON from file")
	return cmd
}

func proposalGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				p, err := c.GetProposal(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
}

func proposalAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept a proposal and form the contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				contract, err := c.AcceptProposal(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(contract)
			})
		},
	}
}

func proposalRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				p, err := c.RejectProposal(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
}

func proposalWithdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <id>",
		Short: "Withdraw a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				p, err := c.WithdrawProposal(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
}

// --- contract ---

func contractCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "contract", Short: "Inspect contracts"}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				contract, err := c.GetContract(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(contract)
			})
		},
	})
	return cmd
}

// --- deliverable ---

func deliverableCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "deliverable", Short: "Manage deliverables"}
	cmd.AddCommand(deliverableSubmitCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a deliverable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				d, err := c.GetDeliverable(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(d)
			})
		},
	})
	return cmd
}

func deliverableSubmitCmd() *cobra.Command {
	var contractID, artifactRef, evidenceRef, notes, file string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a deliverable under an active contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				var candidate domain.Deliverable
				if file != "" {
					data, err := os.ReadFile(file)
					if err != nil {
						return err
					}
					if err := json.Unmarshal(data, &candidate); err != nil {
						return err
					}
				} else {
					candidate = domain.Deliverable{
						ContractID: contractID,
						Submitter:  localActor(),
						Artifacts: []domain.Artifact{
							{Type: "reference", Reference: artifactRef},
						},
						Evidence: domain.EvidenceData{
							Items: []domain.EvidenceItem{
								{Type: "reference", Reference: evidenceRef},
							},
						},
						CompletionNotes: notes,
					}
				}
				d, err := c.SubmitDeliverable(ctx, candidate)
				if err != nil {
					return err
				}
				return printJSONOrTable(d)
			})
		},
	}
	cmd.Flags().StringVar(&contractID, "contract", "", "contract id")
	cmd.Flags().StringVar(&artifactRef, "artifact", "", "artifact reference (URL or path)")
	cmd.Flags().StringVar(&evidenceRef, "evidence", "", "evidence reference (URL or path)")
	cmd.Flags().StringVar(&notes, "notes", "", "completion notes")
	cmd.Flags().StringVar(&file, "file", "", "read full deliverable JSON from file")
	return cmd
}

// --- review ---

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "review", Short: "Manage reviews"}
	cmd.AddCommand(reviewSubmitCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				r, err := c.GetReview(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(r)
			})
		},
	})
	return cmd
}

func reviewSubmitCmd() *cobra.Command {
	var deliverableID, decision, file string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Review a submitted deliverable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *workflow.Client) error {
				var candidate domain.Review
				if file != "" {
					data, err := os.ReadFile(file)
					if err != nil {
						return err
					}
					if err := json.Unmarshal(data, &candidate); err != nil {
						return err
					}
				} else {
					candidate = domain.Review{
						DeliverableID: deliverableID,
						Reviewer:      localActor(),
						Decision:      domain.ReviewDecision(decision),
					}
				}
				r, err := c.SubmitReview(ctx, candidate)
				if err != nil {
					return err
				}
				return printJSONOrTable(r)
			})
		},
	}
	cmd.Flags().StringVar(&deliverableID, "deliverable", "", "deliverable id")
	cmd.Flags().StringVar(&decision, "decision", "", "decision (accepted|rejected|revision-requested|escalated)")
	cmd.Flags().StringVar(&file, "file", "", "read full review JSON from file")
	return cmd
}

// --- config ---

func configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Manage ohap.yml"}
	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default ohap.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config %s already exists", path)
			}
			content := config.GenerateDefault(viper.GetString("actor-id"))
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(cfg)
		},
	}
}

// --- serve ---

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the in-memory reference gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg, err := config.LoadOptional(viper.GetString("workspace")); err != nil {
				return err
			} else if cfg != nil {
				if addr == "" {
					addr = cfg.Serve.Addr
				}
				if basePath == "" {
					basePath = cfg.Serve.BasePath
				}
			}
			if addr == "" {
				addr = "127.0.0.1:8488"
			}
			handler, err := server.New(server.Config{BasePath: basePath})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving OHAP reference gateway on http://%s%s (OpenAPI at /openapi.json, Swagger UI at /docs)\n", addr, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path")
	return cmd
}

// --- demo ---

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the full collaboration workflow against a local gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := server.New(server.Config{Quiet: true})
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return err
			}
			srv := &http.Server{Handler: handler}
			go srv.Serve(ln)
			defer srv.Close()

			ctx := cmd.Context()
			c := workflow.NewClient(gateway.NewClient("http://" + ln.Addr().String()))

			step := func(name string, v any, err error) error {
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				fmt.Printf("== %s ==\n", name)
				b, _ := json.MarshalIndent(v, "", "  ")
				fmt.Println(string(b))
				return nil
			}

			t, err := c.CreateTask(ctx, domain.Task{
				Title:     "Design a logo",
				Objective: "Create a logo for our new product line",
				Initiator: domain.Actor{ID: "agent-001", Type: domain.ActorAgent},
			})
			if err := step("create task", t, err); err != nil {
				return err
			}
			if t, err = c.SubmitTask(ctx, t.ID); err != nil {
				return err
			}
			deadline := time.Now().AddDate(0, 0, 7).UTC().Format(time.RFC3339)
			p, err := c.SubmitProposal(ctx, domain.Proposal{
				TaskID:   t.ID,
				Proposer: domain.Proposer{Actor: domain.Actor{ID: "human-042", Type: domain.ActorHuman}},
				Approach: "Three concept sketches, then two refinement rounds on the picked one",
				Timeline: domain.ProposalTimeline{EstimatedCompletion: deadline},
			})
			if err := step("submit proposal", p, err); err != nil {
				return err
			}
			contract, err := c.AcceptProposal(ctx, p.ID)
			if err := step("accept proposal", contract, err); err != nil {
				return err
			}
			if _, err := c.StartWork(ctx, t.ID); err != nil {
				return err
			}
			d, err := c.SubmitDeliverable(ctx, domain.Deliverable{
				ContractID: contract.ID,
				Submitter:  domain.Actor{ID: "human-042", Type: domain.ActorHuman},
				Artifacts: []domain.Artifact{
					{Type: "file", Reference: "https://example.com/logo-final.svg"},
				},
				Evidence: domain.EvidenceData{
					Items: []domain.EvidenceItem{
						{Type: "file", Reference: "https://example.com/concept-sketches.pdf"},
					},
				},
			})
			if err := step("submit deliverable", d, err); err != nil {
				return err
			}
			r, err := c.SubmitReview(ctx, domain.Review{
				DeliverableID: d.ID,
				Reviewer:      domain.Actor{ID: "agent-001", Type: domain.ActorAgent},
				Decision:      domain.DecisionAccepted,
			})
			if err := step("submit review", r, err); err != nil {
				return err
			}
			closed, settled, err := c.CloseTask(ctx, t.ID)
			if err := step("close task", map[string]any{"task": closed, "contract": settled}, err); err != nil {
				return err
			}
			return nil
		},
	}
}

// --- helpers ---

func withClient(fn func(context.Context, *workflow.Client) error) error {
	gw := gateway.NewClient(viper.GetString("gateway"))
	gw.APIKey = viper.GetString("api-key")
	if cfg, err := config.LoadOptional(viper.GetString("workspace")); err != nil {
		return err
	} else if cfg != nil {
		if gw.BaseURL == "" {
			gw.BaseURL = cfg.Gateway.BaseURL
		}
		if gw.APIKey == "" {
			gw.APIKey = cfg.Gateway.APIKey
		}
		if cfg.Gateway.TimeoutSeconds > 0 {
			gw.Timeout = time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second
		}
	}
	if gw.BaseURL == "" {
		return fmt.Errorf("no gateway configured; pass --gateway or run ohap config init")
	}
	return fn(context.Background(), workflow.NewClient(gw))
}

func localActor() domain.Actor {
	return domain.Actor{
		ID:   viper.GetString("actor-id"),
		Type: domain.ActorType(viper.GetString("actor-type")),
	}
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
