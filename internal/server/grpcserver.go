package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"net"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/S0me0neR0man/homebox/internal/grpcproto"
	"github.com/S0me0neR0man/homebox/internal/stashdb"
	"github.com/S0me0neR0man/homebox/internal/storage"
	"github.com/S0me0neR0man/homebox/internal/token"
)

var (
	errMissingMetadata = status.Errorf(codes.InvalidArgument, "missing metadata")
	errInvalidToken    = status.Errorf(codes.Unauthenticated, "invalid token")
	errWrongPassword   = status.Errorf(codes.Unauthenticated, "wrong password")
)

type sessionKey struct{}

// GRPCServer resolver layer over the stash accessors
type GRPCServer struct {
	stash    *stashdb.Stash
	gate     *token.Gate
	password []byte
	address  string
	sugar    *zap.SugaredLogger
	gserv    *grpc.Server

	wg sync.WaitGroup
}

func NewGRPCServer(stash *stashdb.Stash, gate *token.Gate, password, address string, logger *zap.Logger) *GRPCServer {
	ss := &GRPCServer{
		stash:    stash,
		gate:     gate,
		password: []byte(password),
		address:  address,
		sugar:    logger.Sugar(),
	}
	ss.gserv = grpc.NewServer(grpc.UnaryInterceptor(ss.ensureValidToken))
	grpcproto.RegisterHomeboxServer(ss.gserv, ss)
	return ss
}

// Start listens on the configured address and serves until ctx is done
func (ss *GRPCServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", ss.address)
	if err != nil {
		return err
	}
	return ss.Serve(ctx, lis)
}

func (ss *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	ss.sugar.Infow("grpcserver start", "address", lis.Addr().String())
	ss.wg.Add(1)
	go ss.gracefulStop(ctx)

	err := ss.gserv.Serve(lis)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}

func (ss *GRPCServer) gracefulStop(ctx context.Context) {
	defer ss.wg.Done()

	<-ctx.Done()
	ss.gserv.GracefulStop()
	ss.sugar.Infow("grpcserver stopped")
}

func (ss *GRPCServer) Wait() {
	ss.wg.Wait()
}

func (ss *GRPCServer) ensureValidToken(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if info.FullMethod == grpcproto.FullMethod(grpcproto.MethodLogin) {
		return handler(ctx, req)
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, errMissingMetadata
	}
	// keys within metadata.MD are normalized to lowercase
	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, errInvalidToken
	}
	session, err := token.ParseBearer(values[0])
	if err != nil {
		ss.sugar.Debugw("ensureValidToken", "method", info.FullMethod, "error", err)
		return nil, errInvalidToken
	}
	valid, err := ss.gate.Verify(session)
	if err != nil {
		return nil, ss.toStatus(info.FullMethod, err)
	}
	if !valid {
		return nil, errInvalidToken
	}

	return handler(context.WithValue(ctx, sessionKey{}, session), req)
}

func (ss *GRPCServer) checkPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), ss.password) == 1
}

func sessionFrom(ctx context.Context) (uuid.UUID, bool) {
	session, ok := ctx.Value(sessionKey{}).(uuid.UUID)
	return session, ok
}

// toStatus maps accessor errors onto gRPC codes, unexpected errors are logged
func (ss *GRPCServer) toStatus(method string, err error) error {
	switch {
	case errors.Is(err, grpcproto.ErrMissingField), errors.Is(err, grpcproto.ErrInvalidField):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, stashdb.ErrUnknownContainer), errors.Is(err, storage.ErrReadOnly):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	ss.sugar.Errorw("request failed", "method", method, "error", err)
	return status.Error(codes.Internal, err.Error())
}

func notFound(what string, id uuid.UUID) error {
	return status.Errorf(codes.NotFound, "%s %s not found", what, id)
}
