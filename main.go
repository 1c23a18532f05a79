/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/vuongdotheanh/Website-EduManager7.github.io/cmd"

func main() {
	cmd.Execute()
}
