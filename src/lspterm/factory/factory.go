package factory

import (
	"go.lsp.dev/jsonrpc2"
)

// JSONRPCRequest is a user-defined factory for a JSON-RPC call containing the specified method and parameters.
func JSONRPCRequest(method string, params interface{}) *jsonrpc2.Call {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), method, params)
	return req
}

// JSONRPCCall is JSONRPCRequest with an explicit id.
func JSONRPCCall(id int32, method string, params interface{}) *jsonrpc2.Call {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(id), method, params)
	return req
}

// JSONRPCNotification is a user-defined factory for a JSON-RPC notification.
func JSONRPCNotification(method string, params interface{}) *jsonrpc2.Notification {
	n, _ := jsonrpc2.NewNotification(method, params)
	return n
}
