package grpcproto

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/S0me0neR0man/homebox/internal/stashdb"
)

// Field names of the request and reply structs
const (
	FieldPassword      = "password"
	FieldToken         = "token"
	FieldID            = "id"
	FieldContainerID   = "container_id"
	FieldFrom          = "from"
	FieldTo            = "to"
	FieldName          = "name"
	FieldLocation      = "location"
	FieldClearLocation = "clear_location"
	FieldQuantity      = "quantity"
	FieldDescription   = "description"
	FieldCreated       = "created"
	FieldUpdated       = "updated"
	FieldContainers    = "containers"
	FieldItems         = "items"
	FieldItemImages    = "item_images"
	FieldContainerImgs = "container_images"
)

// maxExactQuantity largest integer a protobuf double holds exactly
const maxExactQuantity = 1 << 53

var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field")
)

func NewStruct(fields map[string]*structpb.Value) *structpb.Struct {
	return &structpb.Struct{Fields: fields}
}

func ContainerToStruct(c stashdb.Container) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldID:      structpb.NewStringValue(c.ID.String()),
		FieldCreated: structpb.NewStringValue(c.Created.Format(time.RFC3339Nano)),
		FieldUpdated: structpb.NewStringValue(c.Updated.Format(time.RFC3339Nano)),
		FieldName:    structpb.NewStringValue(c.Name),
	}
	if c.Location != nil {
		fields[FieldLocation] = structpb.NewStringValue(c.Location.String())
	}
	return NewStruct(fields)
}

func ContainerFromStruct(s *structpb.Struct) (stashdb.Container, error) {
	var (
		c   stashdb.Container
		err error
	)
	if c.ID, err = ID(s, FieldID); err != nil {
		return c, err
	}
	if c.Created, err = Time(s, FieldCreated); err != nil {
		return c, err
	}
	if c.Updated, err = Time(s, FieldUpdated); err != nil {
		return c, err
	}
	if c.Name, err = String(s, FieldName); err != nil {
		return c, err
	}
	if location, ok, err := OptionalID(s, FieldLocation); err != nil {
		return c, err
	} else if ok {
		c.Location = &location
	}
	return c, nil
}

func ItemToStruct(i stashdb.Item) *structpb.Struct {
	return NewStruct(map[string]*structpb.Value{
		FieldID:          structpb.NewStringValue(i.ID.String()),
		FieldContainerID: structpb.NewStringValue(i.ContainerID.String()),
		FieldCreated:     structpb.NewStringValue(i.Created.Format(time.RFC3339Nano)),
		FieldUpdated:     structpb.NewStringValue(i.Updated.Format(time.RFC3339Nano)),
		FieldName:        structpb.NewStringValue(i.Name),
		FieldQuantity:    structpb.NewNumberValue(float64(i.Quantity)),
		FieldDescription: structpb.NewStringValue(i.Description),
	})
}

func ItemFromStruct(s *structpb.Struct) (stashdb.Item, error) {
	var (
		i   stashdb.Item
		err error
	)
	if i.ID, err = ID(s, FieldID); err != nil {
		return i, err
	}
	if i.ContainerID, err = ID(s, FieldContainerID); err != nil {
		return i, err
	}
	if i.Created, err = Time(s, FieldCreated); err != nil {
		return i, err
	}
	if i.Updated, err = Time(s, FieldUpdated); err != nil {
		return i, err
	}
	if i.Name, err = String(s, FieldName); err != nil {
		return i, err
	}
	if i.Quantity, err = Quantity(s, FieldQuantity); err != nil {
		return i, err
	}
	if i.Description, err = String(s, FieldDescription); err != nil {
		return i, err
	}
	return i, nil
}

func ContainersToStruct(list []stashdb.Container) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(list))
	for _, c := range list {
		values = append(values, structpb.NewStructValue(ContainerToStruct(c)))
	}
	return NewStruct(map[string]*structpb.Value{
		FieldContainers: structpb.NewListValue(&structpb.ListValue{Values: values}),
	})
}

func ContainersFromStruct(s *structpb.Struct) ([]stashdb.Container, error) {
	return listFromStruct(s, FieldContainers, ContainerFromStruct)
}

func ItemsToStruct(list []stashdb.Item) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(list))
	for _, i := range list {
		values = append(values, structpb.NewStructValue(ItemToStruct(i)))
	}
	return NewStruct(map[string]*structpb.Value{
		FieldItems: structpb.NewListValue(&structpb.ListValue{Values: values}),
	})
}

func ItemsFromStruct(s *structpb.Struct) ([]stashdb.Item, error) {
	return listFromStruct(s, FieldItems, ItemFromStruct)
}

func SweepReportToStruct(r stashdb.SweepReport) *structpb.Struct {
	return NewStruct(map[string]*structpb.Value{
		FieldItems:         structpb.NewNumberValue(float64(r.Items)),
		FieldItemImages:    structpb.NewNumberValue(float64(r.ItemImages)),
		FieldContainerImgs: structpb.NewNumberValue(float64(r.ContainerImages)),
	})
}

func SweepReportFromStruct(s *structpb.Struct) (stashdb.SweepReport, error) {
	var r stashdb.SweepReport
	for name, dst := range map[string]*int{
		FieldItems:         &r.Items,
		FieldItemImages:    &r.ItemImages,
		FieldContainerImgs: &r.ContainerImages,
	} {
		n, err := Quantity(s, name)
		if err != nil {
			return stashdb.SweepReport{}, err
		}
		*dst = int(n)
	}
	return r, nil
}

func listFromStruct[T any](s *structpb.Struct, name string, conv func(*structpb.Struct) (T, error)) ([]T, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: %s is not a list", ErrInvalidField, name)
	}
	res := make([]T, 0, len(list.GetValues()))
	for _, elem := range list.GetValues() {
		sv := elem.GetStructValue()
		if sv == nil {
			return nil, fmt.Errorf("%w: %s holds a non-struct", ErrInvalidField, name)
		}
		rec, err := conv(sv)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, nil
}

// String returns a required string field
func String(s *structpb.Struct, name string) (string, error) {
	v, ok, err := OptionalString(s, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return v, nil
}

func OptionalString(s *structpb.Struct, name string) (string, bool, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", false, nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", false, fmt.Errorf("%w: %s is not a string", ErrInvalidField, name)
	}
	return sv.StringValue, true, nil
}

// ID returns a required uuid field
func ID(s *structpb.Struct, name string) (uuid.UUID, error) {
	id, ok, err := OptionalID(s, name)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return id, nil
}

func OptionalID(s *structpb.Struct, name string) (uuid.UUID, bool, error) {
	raw, ok, err := OptionalString(s, name)
	if err != nil || !ok {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("%w: %s: %v", ErrInvalidField, name, err)
	}
	return id, true, nil
}

func Time(s *structpb.Struct, name string) (time.Time, error) {
	raw, err := String(s, name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidField, name, err)
	}
	return t, nil
}

// Quantity returns a required non-negative integer field
func Quantity(s *structpb.Struct, name string) (uint64, error) {
	q, ok, err := OptionalQuantity(s, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return q, nil
}

func OptionalQuantity(s *structpb.Struct, name string) (uint64, bool, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, false, nil
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false, fmt.Errorf("%w: %s is not a number", ErrInvalidField, name)
	}
	n := nv.NumberValue
	if n < 0 || n > maxExactQuantity || n != math.Trunc(n) {
		return 0, false, fmt.Errorf("%w: %s must be a non-negative integer, got %v", ErrInvalidField, name, n)
	}
	return uint64(n), true, nil
}

func OptionalBool(s *structpb.Struct, name string) (bool, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return false, nil
	}
	bv, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("%w: %s is not a bool", ErrInvalidField, name)
	}
	return bv.BoolValue, nil
}
