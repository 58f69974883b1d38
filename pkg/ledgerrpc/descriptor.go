package ledgerrpc

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// File_ledger_proto proto/ledger.proto 的 descriptor，init 時註冊到 protoregistry.GlobalFiles
// gRPC reflection 靠它列出 LedgerService 的方法與訊息
var File_ledger_proto protoreflect.FileDescriptor

type fieldKind struct {
	typ      descriptorpb.FieldDescriptorProto_Type
	typeName string // 只有 message 型別需要
}

var (
	kString = fieldKind{typ: descriptorpb.FieldDescriptorProto_TYPE_STRING}
	kInt64  = fieldKind{typ: descriptorpb.FieldDescriptorProto_TYPE_INT64}
	kUint64 = fieldKind{typ: descriptorpb.FieldDescriptorProto_TYPE_UINT64}
	kBool   = fieldKind{typ: descriptorpb.FieldDescriptorProto_TYPE_BOOL}
)

func kMessage(name string) fieldKind {
	return fieldKind{typ: descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeName: ".ledger." + name}
}

// field 欄位的 json_name 與 messages.go 的 json tag 一致 (snake_case)
func field(name string, number int32, kind fieldKind, repeated bool) *descriptorpb.FieldDescriptorProto {
	label := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	if repeated {
		label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	}
	f := &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    label.Enum(),
		Type:     kind.typ.Enum(),
		JsonName: proto.String(name),
	}
	if kind.typeName != "" {
		f.TypeName = proto.String(kind.typeName)
	}
	return f
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func method(name, input, output string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(".ledger." + input),
		OutputType: proto.String(".ledger." + output),
	}
}

// ledgerFileProto 與 proto/ledger.proto 一一對應，修改時兩邊要一起改
func ledgerFileProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("ledger.proto"),
		Package: proto.String("ledger"),
		Syntax:  proto.String("proto3"),
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/JoeShih716/go-debt-atm/pkg/ledgerrpc"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			message("LoginRequest",
				field("ref_id", 1, kString, false),
				field("customer", 2, kString, false),
			),
			message("AmountRequest",
				field("ref_id", 1, kString, false),
				field("customer", 2, kString, false),
				field("amount", 3, kInt64, false),
			),
			message("TransferRequest",
				field("ref_id", 1, kString, false),
				field("customer", 2, kString, false),
				field("target", 3, kString, false),
				field("amount", 4, kInt64, false),
			),
			message("GetAccountRequest",
				field("customer", 1, kString, false),
			),
			message("Obligation",
				field("name", 1, kString, false),
				field("amount", 2, kInt64, false),
			),
			message("Account",
				field("owner", 1, kString, false),
				field("balance", 2, kInt64, false),
				field("debts", 3, kMessage("Obligation"), true),
				field("receivables", 4, kMessage("Obligation"), true),
			),
			message("Settlement",
				field("amount", 1, kInt64, false),
				field("counterparty", 2, kString, false),
			),
			message("OperationResponse",
				field("success", 1, kBool, false),
				field("code", 2, kString, false),
				field("message", 3, kString, false),
				field("current_balance", 4, kInt64, false),
				field("sequence", 5, kUint64, false),
				field("transferred", 6, kInt64, false),
				field("settlements", 7, kMessage("Settlement"), true),
				field("account", 8, kMessage("Account"), false),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("LedgerService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					method("Login", "LoginRequest", "OperationResponse"),
					method("Deposit", "AmountRequest", "OperationResponse"),
					method("Withdraw", "AmountRequest", "OperationResponse"),
					method("Transfer", "TransferRequest", "OperationResponse"),
					method("GetAccount", "GetAccountRequest", "Account"),
				},
			},
		},
	}
}

func init() {
	fd, err := protodesc.NewFile(ledgerFileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("ledgerrpc: invalid ledger.proto descriptor: %v", err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("ledgerrpc: register ledger.proto: %v", err))
	}
	File_ledger_proto = fd
}
