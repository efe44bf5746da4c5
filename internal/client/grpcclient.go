package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/S0me0neR0man/homebox/internal/grpcproto"
	"github.com/S0me0neR0man/homebox/internal/stashdb"
	"github.com/S0me0neR0man/homebox/internal/token"
)

// GRPCClient typed wrapper over the homebox service. Login stores the
// session token, every later call carries it.
type GRPCClient struct {
	conn   *grpc.ClientConn
	client *grpcproto.HomeboxClient
	tokens *token.Tokens
}

func NewGRPCClient(target string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := GRPCClient{tokens: &token.Tokens{}}

	opts = append([]grpc.DialOption{
		grpc.WithPerRPCCredentials(c.tokens),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)

	var err error
	c.conn, err = grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	c.client = grpcproto.NewHomeboxClient(c.conn)

	return &c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Login(ctx context.Context, password string) error {
	resp, err := c.client.Login(ctx, grpcproto.NewStruct(map[string]*structpb.Value{
		grpcproto.FieldPassword: structpb.NewStringValue(password),
	}))
	if err != nil {
		return err
	}
	session, err := grpcproto.ID(resp, grpcproto.FieldToken)
	if err != nil {
		return fmt.Errorf("login resp: %w", err)
	}
	c.tokens.Set(session)
	return nil
}

func (c *GRPCClient) Logout(ctx context.Context) error {
	if _, err := c.client.Logout(ctx); err != nil {
		return err
	}
	c.tokens.Clear()
	return nil
}

func (c *GRPCClient) Containers(ctx context.Context) ([]stashdb.Container, error) {
	resp, err := c.client.AllContainers(ctx)
	if err != nil {
		return nil, err
	}
	return grpcproto.ContainersFromStruct(resp)
}

func (c *GRPCClient) Container(ctx context.Context, id uuid.UUID) (stashdb.Container, error) {
	resp, err := c.client.Container(ctx, idStruct(grpcproto.FieldID, id))
	if err != nil {
		return stashdb.Container{}, err
	}
	return grpcproto.ContainerFromStruct(resp)
}

func (c *GRPCClient) AddContainer(ctx context.Context, name string, location *uuid.UUID) (stashdb.Container, error) {
	fields := map[string]*structpb.Value{
		grpcproto.FieldName: structpb.NewStringValue(name),
	}
	if location != nil {
		fields[grpcproto.FieldLocation] = structpb.NewStringValue(location.String())
	}
	resp, err := c.client.AddContainer(ctx, grpcproto.NewStruct(fields))
	if err != nil {
		return stashdb.Container{}, err
	}
	return grpcproto.ContainerFromStruct(resp)
}

func (c *GRPCClient) UpdateContainer(ctx context.Context, id uuid.UUID, patch stashdb.ContainerPatch) (stashdb.Container, error) {
	fields := map[string]*structpb.Value{
		grpcproto.FieldID: structpb.NewStringValue(id.String()),
	}
	if patch.Name != nil {
		fields[grpcproto.FieldName] = structpb.NewStringValue(*patch.Name)
	}
	if patch.Location != nil {
		fields[grpcproto.FieldLocation] = structpb.NewStringValue(patch.Location.String())
	}
	if patch.ClearLocation {
		fields[grpcproto.FieldClearLocation] = structpb.NewBoolValue(true)
	}
	resp, err := c.client.UpdateContainer(ctx, grpcproto.NewStruct(fields))
	if err != nil {
		return stashdb.Container{}, err
	}
	return grpcproto.ContainerFromStruct(resp)
}

func (c *GRPCClient) DeleteContainer(ctx context.Context, id uuid.UUID) error {
	_, err := c.client.DeleteContainer(ctx, idStruct(grpcproto.FieldID, id))
	return err
}

func (c *GRPCClient) Items(ctx context.Context, containerId uuid.UUID) ([]stashdb.Item, error) {
	resp, err := c.client.ItemsInContainer(ctx, idStruct(grpcproto.FieldContainerID, containerId))
	if err != nil {
		return nil, err
	}
	return grpcproto.ItemsFromStruct(resp)
}

func (c *GRPCClient) Item(ctx context.Context, containerId, id uuid.UUID) (stashdb.Item, error) {
	resp, err := c.client.Item(ctx, itemStruct(containerId, id, nil))
	if err != nil {
		return stashdb.Item{}, err
	}
	return grpcproto.ItemFromStruct(resp)
}

func (c *GRPCClient) AddItem(ctx context.Context, containerId uuid.UUID, name string, quantity uint64, description string) (stashdb.Item, error) {
	resp, err := c.client.AddItem(ctx, grpcproto.NewStruct(map[string]*structpb.Value{
		grpcproto.FieldContainerID: structpb.NewStringValue(containerId.String()),
		grpcproto.FieldName:        structpb.NewStringValue(name),
		grpcproto.FieldQuantity:    structpb.NewNumberValue(float64(quantity)),
		grpcproto.FieldDescription: structpb.NewStringValue(description),
	}))
	if err != nil {
		return stashdb.Item{}, err
	}
	return grpcproto.ItemFromStruct(resp)
}

func (c *GRPCClient) UpdateItem(ctx context.Context, containerId, id uuid.UUID, patch stashdb.ItemPatch) (stashdb.Item, error) {
	fields := make(map[string]*structpb.Value)
	if patch.Name != nil {
		fields[grpcproto.FieldName] = structpb.NewStringValue(*patch.Name)
	}
	if patch.Quantity != nil {
		fields[grpcproto.FieldQuantity] = structpb.NewNumberValue(float64(*patch.Quantity))
	}
	if patch.Description != nil {
		fields[grpcproto.FieldDescription] = structpb.NewStringValue(*patch.Description)
	}
	resp, err := c.client.UpdateItem(ctx, itemStruct(containerId, id, fields))
	if err != nil {
		return stashdb.Item{}, err
	}
	return grpcproto.ItemFromStruct(resp)
}

func (c *GRPCClient) DeleteItem(ctx context.Context, containerId, id uuid.UUID) error {
	_, err := c.client.DeleteItem(ctx, itemStruct(containerId, id, nil))
	return err
}

func (c *GRPCClient) MoveItem(ctx context.Context, id, from, to uuid.UUID) (stashdb.Item, error) {
	resp, err := c.client.MoveItem(ctx, grpcproto.NewStruct(map[string]*structpb.Value{
		grpcproto.FieldID:   structpb.NewStringValue(id.String()),
		grpcproto.FieldFrom: structpb.NewStringValue(from.String()),
		grpcproto.FieldTo:   structpb.NewStringValue(to.String()),
	}))
	if err != nil {
		return stashdb.Item{}, err
	}
	return grpcproto.ItemFromStruct(resp)
}

func (c *GRPCClient) SweepOrphans(ctx context.Context) (stashdb.SweepReport, error) {
	resp, err := c.client.SweepOrphans(ctx)
	if err != nil {
		return stashdb.SweepReport{}, err
	}
	return grpcproto.SweepReportFromStruct(resp)
}

func idStruct(name string, id uuid.UUID) *structpb.Struct {
	return grpcproto.NewStruct(map[string]*structpb.Value{
		name: structpb.NewStringValue(id.String()),
	})
}

func itemStruct(containerId, id uuid.UUID, fields map[string]*structpb.Value) *structpb.Struct {
	if fields == nil {
		fields = make(map[string]*structpb.Value, 2)
	}
	fields[grpcproto.FieldContainerID] = structpb.NewStringValue(containerId.String())
	fields[grpcproto.FieldID] = structpb.NewStringValue(id.String())
	return grpcproto.NewStruct(fields)
}
