package main

import (
	"github.com/DallanL/nms-like-n-subscribe/internal/app"
	"go.uber.org/fx"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
