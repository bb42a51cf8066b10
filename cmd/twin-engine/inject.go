package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	twinv1 "github.com/miradorstack/mirador-twin/internal/grpc/twinv1"
)

var (
	injectAddress  string
	injectDuration time.Duration
	injectTimeout  time.Duration
)

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Drive a running engine over gRPC",
}

func init() {
	injectCmd.PersistentFlags().StringVar(&injectAddress, "address", "localhost:50061", "gRPC address of the engine")
	injectCmd.PersistentFlags().DurationVar(&injectTimeout, "timeout", 5*time.Second, "Request timeout")

	failCmd := &cobra.Command{
		Use:   "fail <node-id>",
		Short: "Fail a node",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, c twinv1.TwinEngineClient, args []string) (any, error) {
			return c.FailNode(ctx, &twinv1.FailNodeRequest{NodeId: args[0], DurationMs: injectDuration.Milliseconds()})
		}),
	}
	failCmd.Flags().DurationVar(&injectDuration, "duration", 0, "Recover automatically after this much simulated time")

	var level int32
	degradeCmd := &cobra.Command{
		Use:   "degrade <node-id>",
		Short: "Degrade a node to a health level",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, c twinv1.TwinEngineClient, args []string) (any, error) {
			return c.DegradeNode(ctx, &twinv1.DegradeNodeRequest{NodeId: args[0], Level: level, DurationMs: injectDuration.Milliseconds()})
		}),
	}
	degradeCmd.Flags().Int32Var(&level, "level", 50, "Target health (0-100)")
	degradeCmd.Flags().DurationVar(&injectDuration, "duration", 0, "Recover automatically after this much simulated time")

	recoverCmd := &cobra.Command{
		Use:   "recover <node-id>",
		Short: "Recover a node",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, c twinv1.TwinEngineClient, args []string) (any, error) {
			return c.RecoverNode(ctx, &twinv1.RecoverNodeRequest{NodeId: args[0]})
		}),
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the engine status",
		Args:  cobra.NoArgs,
		RunE: withClient(func(ctx context.Context, c twinv1.TwinEngineClient, _ []string) (any, error) {
			return c.GetStatus(ctx, &emptypb.Empty{})
		}),
	}

	injectCmd.AddCommand(
		failCmd,
		degradeCmd,
		recoverCmd,
		statusCmd,
		controlCmd("start", twinv1.TwinEngineClient.Start),
		controlCmd("pause", twinv1.TwinEngineClient.Pause),
		controlCmd("stop", twinv1.TwinEngineClient.Stop),
		controlCmd("reset", twinv1.TwinEngineClient.Reset),
	)
}

type controlFunc func(twinv1.TwinEngineClient, context.Context, *emptypb.Empty, ...grpc.CallOption) (*twinv1.ControlResponse, error)

func controlCmd(name string, call controlFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Send %s to the simulation clock", name),
		Args:  cobra.NoArgs,
		RunE: withClient(func(ctx context.Context, c twinv1.TwinEngineClient, _ []string) (any, error) {
			return call(c, ctx, &emptypb.Empty{})
		}),
	}
}

type clientCall func(ctx context.Context, c twinv1.TwinEngineClient, args []string) (any, error)

// withClient dials the engine, runs call and prints the response as JSON.
func withClient(call clientCall) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		conn, err := grpc.NewClient(injectAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), injectTimeout)
		defer cancel()

		resp, err := call(ctx, twinv1.NewTwinEngineClient(conn), args)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
}
