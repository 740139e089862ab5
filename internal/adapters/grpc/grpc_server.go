package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"github.com/lcalzada-xor/fleetdash/internal/core/services/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GrpcServer implements FleetServiceServer over the dashboard facade.
type GrpcServer struct {
	service  ports.DashboardService
	source   ports.SnapshotSource
	selector *selector.Selector // shared by every call and stream
}

func newFleetServer(svc ports.DashboardService, source ports.SnapshotSource) *GrpcServer {
	return &GrpcServer{service: svc, source: source, selector: selector.New()}
}

// NewGrpcServer builds a grpc.Server with the fleet and health services registered.
func NewGrpcServer(svc ports.DashboardService, source ports.SnapshotSource) (*grpc.Server, *health.Server) {
	s := grpc.NewServer()
	RegisterFleetServiceServer(s, newFleetServer(svc, source))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return s, hs
}

// Serve listens on addr until ctx is cancelled.
func Serve(ctx context.Context, s *grpc.Server, hs *health.Server, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	go func() {
		<-ctx.Done()
		slog.Info("gRPC server shutting down")
		hs.Shutdown()
		s.GracefulStop()
	}()

	slog.Info("gRPC server listening", "addr", lis.Addr().String())
	if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (s *GrpcServer) GetFleet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	filter, err := requestFilter(req)
	if err != nil {
		return nil, err
	}
	snap := s.service.Snapshot()
	return fleetMessage(snap, filter, s.selector.Select(snap, filter))
}

// WatchFleet sends the current snapshot, then one message per publish until
// the client goes away.
func (s *GrpcServer) WatchFleet(req *structpb.Struct, stream FleetService_WatchFleetServer) error {
	filter, err := requestFilter(req)
	if err != nil {
		return err
	}

	updates, cancel := s.source.Subscribe(1)
	defer cancel()

	send := func(snap domain.Snapshot) error {
		msg, err := fleetMessage(snap, filter, s.selector.Select(snap, filter))
		if err != nil {
			return err
		}
		return stream.Send(msg)
	}

	if err := send(s.source.Snapshot()); err != nil {
		return err
	}
	for {
		select {
		case <-stream.Context().Done():
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if err := send(snap); err != nil {
				return err
			}
		}
	}
}

func requestFilter(req *structpb.Struct) (domain.Filter, error) {
	raw := ""
	if v, ok := req.GetFields()["filter"]; ok {
		raw = v.GetStringValue()
	}
	f, err := domain.ParseFilter(raw)
	if err != nil {
		return "", status.Error(codes.InvalidArgument, err.Error())
	}
	return f, nil
}

type fleetPayload struct {
	Version uint64              `json:"version"`
	Filter  domain.Filter       `json:"filter"`
	Summary domain.FleetSummary `json:"summary"`
	Robots  []domain.Robot      `json:"robots"`
}

// fleetMessage encodes the snapshot and its selected robots through their JSON
// form so the Struct fields match the HTTP API.
func fleetMessage(snap domain.Snapshot, filter domain.Filter, robots []domain.Robot) (*structpb.Struct, error) {
	data, err := json.Marshal(fleetPayload{
		Version: snap.Version,
		Filter:  filter,
		Summary: domain.Summarize(snap),
		Robots:  robots,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode fleet: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "decode fleet: %v", err)
	}
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build struct: %v", err)
	}
	return msg, nil
}

// Ensure interface compliance
var _ FleetServiceServer = (*GrpcServer)(nil)
