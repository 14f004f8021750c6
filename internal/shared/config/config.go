package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "configs/conf.yml"

// ResolvePath 约定：
// 1) cfgName 为绝对路径直接使用；
// 2) 相对路径先按当前目录拼接，不存在时从当前目录向上查找；
// 3) 为空时从当前目录开始向上查找 `configs/conf.yml`。
func ResolvePath(cfgName string) (string, error) {
	if cfgName != "" && filepath.IsAbs(cfgName) {
		if !fileExist(cfgName) {
			return "", fmt.Errorf("config file not exist, configPath=%v", cfgName)
		}
		return cfgName, nil
	}

	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	rel := cfgName
	if rel == "" {
		rel = defaultConfigRelPath
	}
	return findConfigUpward(curDir, rel)
}

func findConfigUpward(startDir, rel string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config file not exist, searched %s from: %s", rel, startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
