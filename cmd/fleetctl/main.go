package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	grpcclient "github.com/lcalzada-xor/fleetdash/internal/adapters/grpc"
)

func main() {
	serverAddr := flag.String("server", "localhost:9000", "fleetdash gRPC address")
	filter := flag.String("filter", "all", "Robot filter: all, online, offline, low-battery")
	watch := flag.Bool("watch", false, "Stream the fleet on every update")
	asJSON := flag.Bool("json", false, "Print raw JSON instead of a table")
	health := flag.Bool("health", false, "Only run a health check")
	timeout := flag.Duration("timeout", 5*time.Second, "Timeout for unary calls")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// 1. Connect to gRPC Server
	conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		slog.Error("did not connect", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *health {
		if err := checkHealth(ctx, conn, *timeout); err != nil {
			slog.Error("health check failed", "error", err)
			os.Exit(1)
		}
		return
	}

	client := grpcclient.NewFleetClient(conn)
	show := printTable
	if *asJSON {
		show = printJSON
	}

	if !*watch {
		callCtx, callCancel := context.WithTimeout(ctx, *timeout)
		defer callCancel()
		fleet, err := client.GetFleet(callCtx, *filter)
		if err != nil {
			slog.Error("GetFleet failed", "error", err)
			os.Exit(1)
		}
		show(os.Stdout, fleet)
		return
	}

	// 2. Stream updates until interrupted
	stream, err := client.WatchFleet(ctx, *filter)
	if err != nil {
		slog.Error("could not open stream", "error", err)
		os.Exit(1)
	}
	for {
		fleet, err := stream.Recv()
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return
		}
		if err != nil {
			slog.Error("stream closed", "error", err)
			os.Exit(1)
		}
		show(os.Stdout, fleet)
	}
}

func checkHealth(ctx context.Context, conn *grpc.ClientConn, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: grpcclient.ServiceName})
	if err != nil {
		return err
	}
	fmt.Println(resp.GetStatus().String())
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("service not serving: %s", resp.GetStatus())
	}
	return nil
}

func printJSON(w io.Writer, fleet *structpb.Struct) {
	data, err := json.Marshal(fleet.AsMap())
	if err != nil {
		slog.Error("encode failed", "error", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

func printTable(w io.Writer, fleet *structpb.Struct) {
	m := fleet.AsMap()
	summary, _ := m["summary"].(map[string]interface{})
	fmt.Fprintf(w, "version %v  filter %v  total %v  online %v  offline %v  low-battery %v\n",
		m["version"], m["filter"], summary["total"], summary["online"], summary["offline"], summary["lowBattery"])

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tBATTERY\tCPU\tRAM")
	robots, _ := m["robots"].([]interface{})
	for _, raw := range robots {
		r, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%v\t%v\t%.0f%%\t%.0f%%\t%.0f%%\n",
			r["id"], r["status"], r["batteryPercentage"], r["cpuUsage"], r["ramUsage"])
	}
	tw.Flush()
	fmt.Fprintln(w)
}
