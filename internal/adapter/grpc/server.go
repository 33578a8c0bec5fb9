package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

// NewServer creates the gRPC server carrying the health service and reflection.
// When apiToken is set every RPC except health checks must present it.
func NewServer(apiToken string, healthServer *HealthServer) *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(AuthInterceptor(apiToken)),
		grpc.ChainStreamInterceptor(StreamAuthInterceptor(apiToken)),
	)

	healthServer.Register(server)
	reflection.Register(server)

	return server
}
