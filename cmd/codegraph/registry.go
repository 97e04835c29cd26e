package main

import (
	"github.com/viant/codegraph/lang"
	"github.com/viant/codegraph/lang/golang"
	"github.com/viant/codegraph/lang/java"
	"github.com/viant/codegraph/lang/javascript"
)

type registryHolder struct {
	*lang.Registry
}

func newRegistryHolder() *registryHolder {
	return &registryHolder{Registry: lang.NewRegistry(&golang.Rules, &java.Rules, &javascript.Rules)}
}
