package server

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/S0me0neR0man/homebox/internal/grpcproto"
	"github.com/S0me0neR0man/homebox/internal/stashdb"
)

func (ss *GRPCServer) Login(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	password, err := grpcproto.String(in, grpcproto.FieldPassword)
	if err != nil {
		return nil, ss.toStatus(grpcproto.MethodLogin, err)
	}
	if !ss.checkPassword(password) {
		ss.sugar.Warnw("login refused")
		return nil, errWrongPassword
	}
	session, err := ss.gate.Issue()
	if err != nil {
		return nil, ss.toStatus(grpcproto.MethodLogin, err)
	}
	return grpcproto.NewStruct(map[string]*structpb.Value{
		grpcproto.FieldToken: structpb.NewStringValue(session.String()),
	}), nil
}

func (ss *GRPCServer) Logout(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	session, ok := sessionFrom(ctx)
	if !ok {
		return nil, errInvalidToken
	}
	if err := ss.gate.Revoke(session); err != nil {
		return nil, ss.toStatus(grpcproto.MethodLogout, err)
	}
	return &emptypb.Empty{}, nil
}

func (ss *GRPCServer) AllContainers(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	list, err := ss.stash.Containers.List()
	if err != nil {
		return nil, ss.toStatus(grpcproto.MethodAllContainers, err)
	}
	return grpcproto.ContainersToStruct(list), nil
}

func (ss *GRPCServer) Container(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	const method = grpcproto.MethodContainer
	id, err := grpcproto.ID(in, grpcproto.FieldID)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	c, found, err := ss.stash.Containers.Get(id)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	if !found {
		return nil, notFound("container", id)
	}
	return grpcproto.ContainerToStruct(c), nil
}

func (ss *GRPCServer) AddContainer(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	const method = grpcproto.MethodAddContainer
	name, err := grpcproto.String(in, grpcproto.FieldName)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	location, ok, err := grpcproto.OptionalID(in, grpcproto.FieldLocation)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	var loc *uuid.UUID
	if ok {
		loc = &location
	}
	c, err := ss.stash.Containers.Create(name, loc)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	return grpcproto.ContainerToStruct(c), nil
}

func (ss *GRPCServer) UpdateContainer(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	const method = grpcproto.MethodUpdateContainer
	id, err := grpcproto.ID(in, grpcproto.FieldID)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	var patch stashdb.ContainerPatch
	if name, ok, err := grpcproto.OptionalString(in, grpcproto.FieldName); err != nil {
		return nil, ss.toStatus(method, err)
	} else if ok {
		patch.Name = &name
	}
	if location, ok, err := grpcproto.OptionalID(in, grpcproto.FieldLocation); err != nil {
		return nil, ss.toStatus(method, err)
	} else if ok {
		patch.Location = &location
	}
	if patch.ClearLocation, err = grpcproto.OptionalBool(in, grpcproto.FieldClearLocation); err != nil {
		return nil, ss.toStatus(method, err)
	}

	c, found, err := ss.stash.Containers.Update(id, patch)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	if !found {
		return nil, notFound("container", id)
	}
	return grpcproto.ContainerToStruct(c), nil
}

func (ss *GRPCServer) DeleteContainer(_ context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	const method = grpcproto.MethodDeleteContainer
	id, err := grpcproto.ID(in, grpcproto.FieldID)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	found, err := ss.stash.Containers.Delete(id)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	if !found {
		return nil, notFound("container", id)
	}
	return &emptypb.Empty{}, nil
}

func (ss *GRPCServer) ItemsInContainer(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	const method = grpcproto.MethodItemsInContainer
	containerId, err := grpcproto.ID(in, grpcproto.FieldContainerID)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	list, err := ss.stash.Items.List(containerId)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	return grpcproto.ItemsToStruct(list), nil
}

func (ss *GRPCServer) Item(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	const method = grpcproto.MethodItem
	containerId, id, err := itemIds(in)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	item, found, err := ss.stash.Items.Get(containerId, id)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	if !found {
		return nil, notFound("item", id)
	}
	return grpcproto.ItemToStruct(item), nil
}

func (ss *GRPCServer) AddItem(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	const method = grpcproto.MethodAddItem
	containerId, err := grpcproto.ID(in, grpcproto.FieldContainerID)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	name, err := grpcproto.String(in, grpcproto.FieldName)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	quantity, _, err := grpcproto.OptionalQuantity(in, grpcproto.FieldQuantity)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	description, _, err := grpcproto.OptionalString(in, grpcproto.FieldDescription)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}

	item, err := ss.stash.Items.Create(containerId, name, quantity, description)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	return grpcproto.ItemToStruct(item), nil
}

func (ss *GRPCServer) UpdateItem(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	const method = grpcproto.MethodUpdateItem
	containerId, id, err := itemIds(in)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	var patch stashdb.ItemPatch
	if name, ok, err := grpcproto.OptionalString(in, grpcproto.FieldName); err != nil {
		return nil, ss.toStatus(method, err)
	} else if ok {
		patch.Name = &name
	}
	if quantity, ok, err := grpcproto.OptionalQuantity(in, grpcproto.FieldQuantity); err != nil {
		return nil, ss.toStatus(method, err)
	} else if ok {
		patch.Quantity = &quantity
	}
	if description, ok, err := grpcproto.OptionalString(in, grpcproto.FieldDescription); err != nil {
		return nil, ss.toStatus(method, err)
	} else if ok {
		patch.Description = &description
	}

	item, found, err := ss.stash.Items.Update(containerId, id, patch)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	if !found {
		return nil, notFound("item", id)
	}
	return grpcproto.ItemToStruct(item), nil
}

func (ss *GRPCServer) DeleteItem(_ context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	const method = grpcproto.MethodDeleteItem
	containerId, id, err := itemIds(in)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	found, err := ss.stash.Items.Delete(containerId, id)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	if !found {
		return nil, notFound("item", id)
	}
	return &emptypb.Empty{}, nil
}

func (ss *GRPCServer) MoveItem(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	const method = grpcproto.MethodMoveItem
	id, err := grpcproto.ID(in, grpcproto.FieldID)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	from, err := grpcproto.ID(in, grpcproto.FieldFrom)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	to, err := grpcproto.ID(in, grpcproto.FieldTo)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}

	item, found, err := ss.stash.Items.Move(id, from, to)
	if err != nil {
		return nil, ss.toStatus(method, err)
	}
	if !found {
		return nil, notFound("item", id)
	}
	return grpcproto.ItemToStruct(item), nil
}

func (ss *GRPCServer) SweepOrphans(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	report, err := ss.stash.SweepOrphans()
	if err != nil {
		return nil, ss.toStatus(grpcproto.MethodSweepOrphans, err)
	}
	return grpcproto.SweepReportToStruct(report), nil
}

func itemIds(in *structpb.Struct) (containerId, id uuid.UUID, err error) {
	if containerId, err = grpcproto.ID(in, grpcproto.FieldContainerID); err != nil {
		return
	}
	id, err = grpcproto.ID(in, grpcproto.FieldID)
	return
}
