package gokg

import (
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// CatalogState is stored under the catalog's state key and tracks the catalog format and per-order graph counts.
type CatalogState struct {
	MajorVers int32    `protobuf:"varint,1,opt,name=major_vers,json=majorVers,proto3" json:"major_vers,omitempty"`
	MinorVers int32    `protobuf:"varint,2,opt,name=minor_vers,json=minorVers,proto3" json:"minor_vers,omitempty"`
	NumGraphs []uint64 `protobuf:"varint,3,rep,packed,name=num_graphs,json=numGraphs,proto3" json:"num_graphs,omitempty"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString((*catalogStateWire)(m)) }
func (*CatalogState) ProtoMessage()    {}

func (m *CatalogState) Marshal() ([]byte, error) {
	return proto.Marshal((*catalogStateWire)(m))
}

func (m *CatalogState) Unmarshal(buf []byte) error {
	if err := proto.Unmarshal(buf, (*catalogStateWire)(m)); err != nil {
		return errors.Wrap(ErrUnmarshal, err.Error())
	}
	return nil
}

// WeightRecord is the value stored for each graph in a weight catalog.
type WeightRecord struct {
	Encoding     string `protobuf:"bytes,1,opt,name=encoding,proto3" json:"encoding,omitempty"`
	Weight       string `protobuf:"bytes,2,opt,name=weight,proto3" json:"weight,omitempty"`
	Multiplicity int64  `protobuf:"varint,3,opt,name=multiplicity,proto3" json:"multiplicity,omitempty"`
	IsPrime      bool   `protobuf:"varint,4,opt,name=is_prime,json=isPrime,proto3" json:"is_prime,omitempty"`
	Internal     int32  `protobuf:"varint,5,opt,name=internal,proto3" json:"internal,omitempty"`
	External     int32  `protobuf:"varint,6,opt,name=external,proto3" json:"external,omitempty"`
}

func (m *WeightRecord) Reset()         { *m = WeightRecord{} }
func (m *WeightRecord) String() string { return proto.CompactTextString((*weightRecordWire)(m)) }
func (*WeightRecord) ProtoMessage()    {}

func (m *WeightRecord) Marshal() ([]byte, error) {
	return proto.Marshal((*weightRecordWire)(m))
}

func (m *WeightRecord) Unmarshal(buf []byte) error {
	if err := proto.Unmarshal(buf, (*weightRecordWire)(m)); err != nil {
		return errors.Wrap(ErrUnmarshal, err.Error())
	}
	return nil
}

// The wire types share the field layout (and tags) of the records above but lack their Marshal and Unmarshal methods,
// so proto.Marshal and proto.Unmarshal encode them by reflection instead of calling back into the records.
type (
	catalogStateWire CatalogState
	weightRecordWire WeightRecord
)

func (m *catalogStateWire) Reset()         { *m = catalogStateWire{} }
func (m *catalogStateWire) String() string { return proto.CompactTextString(m) }
func (*catalogStateWire) ProtoMessage()    {}

func (m *weightRecordWire) Reset()         { *m = weightRecordWire{} }
func (m *weightRecordWire) String() string { return proto.CompactTextString(m) }
func (*weightRecordWire) ProtoMessage()    {}
