// planctl 课程规划后端的命令行客户端
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// PLANNER_SERVER 可以写在 .env 中
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}
