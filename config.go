package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"mibk.dev/dtstrip/strip"
)

const (
	configName = ".dtstrip.yaml"
	nodesEnv   = "DTSTRIP_NODES"
)

// settings control a single run.
type settings struct {
	nodes strip.Nodes
	opts  strip.Options
}

// fileConfig is the content of a .dtstrip.yaml file.
type fileConfig struct {
	Nodes []string `yaml:"nodes"`
	Word  bool     `yaml:"word"`
}

// configFinder looks up .dtstrip.yaml files, walking up the directory
// tree, and remembers what it found in each directory.
type configFinder struct {
	cache map[string]*fileConfig
}

func newConfigFinder() *configFinder {
	return &configFinder{cache: make(map[string]*fileConfig)}
}

// resolve returns the settings for filename. The first non-empty
// source wins: flagNodes, $DTSTRIP_NODES, the nearest .dtstrip.yaml,
// and finally strip.DefaultNodes. Word boundary matching is on if word
// is set or if the config file, when consulted, asks for it.
func (cf *configFinder) resolve(filename string, flagNodes []string, word bool) (settings, error) {
	s := settings{}
	if word {
		s.opts |= strip.WordBoundary
	}
	if nodes := strip.ParseNodes(strings.Join(flagNodes, ",")); len(nodes) > 0 {
		s.nodes = nodes
		return s, nil
	}
	if nodes := strip.ParseNodes(os.Getenv(nodesEnv)); len(nodes) > 0 {
		s.nodes = nodes
		return s, nil
	}

	fc, err := cf.find(filepath.Dir(filename))
	if err != nil {
		return settings{}, err
	}
	if fc != nil {
		if fc.Word {
			s.opts |= strip.WordBoundary
		}
		if nodes := strip.ParseNodes(strings.Join(fc.Nodes, ",")); len(nodes) > 0 {
			s.nodes = nodes
			return s, nil
		}
	}
	s.nodes = strip.DefaultNodes.Clone()
	return s, nil
}

// find returns the nearest config at or above dir, or nil if there is none.
func (cf *configFinder) find(dir string) (*fileConfig, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var visited []string
	remember := func(fc *fileConfig) *fileConfig {
		for _, d := range visited {
			cf.cache[d] = fc
		}
		return fc
	}

	for {
		if fc, ok := cf.cache[dir]; ok {
			return remember(fc), nil
		}
		visited = append(visited, dir)

		name := filepath.Join(dir, configName)
		b, err := os.ReadFile(name)
		if os.IsNotExist(err) || os.IsPermission(err) {
			old := dir
			dir = filepath.Dir(dir)
			if dir != old {
				continue
			}
			// Root.
			return remember(nil), nil
		}
		if err != nil {
			return nil, err
		}

		fc := new(fileConfig)
		if err := yaml.Unmarshal(b, fc); err != nil {
			return nil, fmt.Errorf("%s: %v", name, err)
		}
		return remember(fc), nil
	}
}
